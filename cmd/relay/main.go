// Command relay runs one batch from a CSV file: classify the rows, then
// export a .vcf or send templated messages, and print the report as JSON.
// Spreadsheet decoding is input glue, not part of the engine; the first CSV
// record is taken as the header row.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/relaykit/contact-relay/internal/app/bootstrap"
	appconfig "github.com/relaykit/contact-relay/internal/config"
	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/pipeline"
	"github.com/relaykit/contact-relay/pkg/logging"
)

func main() {
	var (
		inPath    = flag.String("in", "", "input CSV file (first record is the header)")
		mode      = flag.String("mode", "classify", "classify, export or send")
		nameCol   = flag.String("name", "", "column holding the contact name")
		phoneCol  = flag.String("phone", "", "column holding the phone number")
		prefix    = flag.String("prefix", "", "dial prefix override, e.g. 5531")
		vcfPath   = flag.String("out", "contacts.vcf", "output path for export mode")
		jsonEmbed = flag.Bool("vcard-in-report", false, "keep the vcard blob inside the JSON report")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if *inPath == "" || *nameCol == "" || *phoneCol == "" {
		fmt.Fprintln(os.Stderr, "usage: relay -in contacts.csv -name <column> -phone <column> [-mode classify|export|send]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	rows, err := readCSV(*inPath)
	if err != nil {
		logger.Error("failed to read input", "path", *inPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := bootstrap.BuildDispatcher(cfg, logger, nil)
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	enricher := bootstrap.BuildEnricher(ctx, cfg, redisClient, logger)
	p := pipeline.New(dispatcher, enricher, nil, logger.Logger)

	plan := contacts.PlanFromPrefix(cfg.DialPrefix, contacts.DefaultDialPlan)
	plan.MarkerDigit = cfg.MarkerDigit()
	if *prefix != "" {
		plan = contacts.PlanFromPrefix(*prefix, plan)
	}

	report, err := p.Run(ctx, rows, pipeline.RunConfig{
		Mode:    pipeline.Mode(*mode),
		Mapping: contacts.FieldMapping{NameColumn: *nameCol, PhoneColumn: *phoneCol},
		Plan:    plan,
	})
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}

	if report.Mode == pipeline.ModeExport {
		if err := os.WriteFile(*vcfPath, []byte(report.VCard), 0o644); err != nil {
			logger.Error("failed to write vcf", "path", *vcfPath, "error", err)
			os.Exit(1)
		}
		logger.Info("vcf written", "path", *vcfPath, "contacts", report.Accepted)
		if !*jsonEmbed {
			report.VCard = ""
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
	logger.Info("batch finished",
		"batch_id", report.BatchID,
		"total", report.Total,
		"accepted", report.Accepted,
		"rejected", report.Rejected,
		"sent", report.Sent,
		"failed", report.Failed,
	)
}

func readCSV(path string) ([]contacts.RawContact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []contacts.RawContact
	for i := 1; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		fields := make(map[string]string, len(header))
		for j, column := range header {
			if j < len(record) {
				fields[column] = record[j]
			}
		}
		rows = append(rows, contacts.RawContact{Row: i, Fields: fields})
	}
	return rows, nil
}
