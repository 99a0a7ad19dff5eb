package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/dispatch"
	"github.com/relaykit/contact-relay/internal/dispatch/waclient"
)

type stubGateway struct {
	calls int
	fail  bool
}

func (g *stubGateway) SendTemplate(ctx context.Context, msg waclient.TemplateMessage) (*waclient.SendResult, error) {
	g.calls++
	if g.fail {
		return nil, &waclient.APIError{StatusCode: 400, Message: "template not found"}
	}
	return &waclient.SendResult{MessageID: "wamid.1"}, nil
}

var (
	testPlan    = contacts.DialPlan{CountryCode: "55", AreaCode: "31", MarkerDigit: '9'}
	testMapping = contacts.FieldMapping{NameColumn: "nome", PhoneColumn: "telefone"}
)

func testRows() []contacts.RawContact {
	return []contacts.RawContact{
		{Row: 1, Fields: map[string]string{"nome": "Ana Souza", "telefone": "31987654321"}},
		{Row: 2, Fields: map[string]string{"nome": "Bruno Lima", "telefone": "123"}},
		{Row: 3, Fields: map[string]string{"nome": "", "telefone": "31987654321"}},
	}
}

func TestRunClassifyMode(t *testing.T) {
	p := New(nil, nil, nil, nil)
	report, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeClassify, Mapping: testMapping, Plan: testPlan,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Total != 3 || report.Accepted != 1 || report.Rejected != 2 {
		t.Fatalf("counts: %+v", report)
	}
	if report.BatchID == "" {
		t.Fatal("missing batch id")
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 row results, got %d", len(report.Rows))
	}
	// Report rows follow input order and carry the original values.
	if report.Rows[0].Status != "accepted" || report.Rows[0].Detail != "+55 (31) 98765-4321" {
		t.Fatalf("row 1: %+v", report.Rows[0])
	}
	if report.Rows[1].Status != "rejected" || report.Rows[1].OriginalPhone != "123" {
		t.Fatalf("row 2: %+v", report.Rows[1])
	}
	if report.Rows[1].Detail == "" || report.Rows[2].Detail == "" {
		t.Fatal("rejected rows must carry an explanation")
	}
	if report.VCard != "" || report.Outcomes != nil {
		t.Fatal("classify mode must not export or dispatch")
	}
}

func TestRunExportMode(t *testing.T) {
	p := New(nil, nil, nil, nil)
	report, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeExport, Mapping: testMapping, Plan: testPlan,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(report.VCard, "FN:Ana Souza") {
		t.Fatalf("vcard missing accepted contact:\n%s", report.VCard)
	}
	if strings.Contains(report.VCard, "Bruno") {
		t.Fatal("rejected contact leaked into vcard")
	}
}

func TestRunExportModeEmptyAccepted(t *testing.T) {
	p := New(nil, nil, nil, nil)
	rows := []contacts.RawContact{
		{Row: 1, Fields: map[string]string{"nome": "Ana", "telefone": "123"}},
	}
	report, err := p.Run(context.Background(), rows, RunConfig{
		Mode: ModeExport, Mapping: testMapping, Plan: testPlan,
	})
	if err != nil {
		t.Fatalf("nothing to export is not an error: %v", err)
	}
	if report.VCard != "" {
		t.Fatalf("expected empty vcard, got %q", report.VCard)
	}
}

func TestRunSendMode(t *testing.T) {
	gateway := &stubGateway{}
	d, err := dispatch.New(gateway, dispatch.Config{Template: "boas_vindas"})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	p := New(d, nil, nil, nil)

	report, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeSend, Mapping: testMapping, Plan: testPlan,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gateway.calls != 1 {
		t.Fatalf("only accepted rows may be dispatched, got %d calls", gateway.calls)
	}
	if report.Sent != 1 || report.Failed != 0 {
		t.Fatalf("counts: sent=%d failed=%d", report.Sent, report.Failed)
	}
	if report.Rows[0].Status != "sent" || !strings.Contains(report.Rows[0].Detail, "wamid.1") {
		t.Fatalf("row 1: %+v", report.Rows[0])
	}
	// Rejected rows keep their classification status in send mode.
	if report.Rows[1].Status != "rejected" {
		t.Fatalf("row 2: %+v", report.Rows[1])
	}
}

func TestRunSendModeGatewayFailure(t *testing.T) {
	d, err := dispatch.New(&stubGateway{fail: true}, dispatch.Config{Template: "t"})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	p := New(d, nil, nil, nil)

	report, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeSend, Mapping: testMapping, Plan: testPlan,
	})
	if err != nil {
		t.Fatalf("per-record failures must not abort the batch: %v", err)
	}
	if report.Failed != 1 || report.Sent != 0 {
		t.Fatalf("counts: %+v", report)
	}
	if report.Rows[0].Status != "failed" || !strings.Contains(report.Rows[0].Detail, "template not found") {
		t.Fatalf("row 1: %+v", report.Rows[0])
	}
}

func TestRunPreconditionFailures(t *testing.T) {
	p := New(nil, nil, nil, nil)
	if _, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeSend, Mapping: testMapping, Plan: testPlan,
	}); err == nil {
		t.Fatal("send mode without gateway must fail")
	}
	if _, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: ModeClassify, Plan: testPlan,
	}); err == nil {
		t.Fatal("missing mapping must fail before processing")
	}
	if _, err := p.Run(context.Background(), testRows(), RunConfig{
		Mode: "bogus", Mapping: testMapping, Plan: testPlan,
	}); err == nil {
		t.Fatal("unknown mode must fail")
	}
}
