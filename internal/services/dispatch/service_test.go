package dispatch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/conversation"
	"github.com/ricardoamaro/ai-shell-assistant/internal/pkg/logger"
)

func newTestService(gw *scriptedGateway, gate *stubGate) (*Service, *captureRenderer, *memoryHistory) {
	out := &captureRenderer{}
	hist := &memoryHistory{}
	svc := &Service{
		Config:       domain.Config{Language: "English"},
		Session:      domain.NewSession(domain.ProviderOllama),
		Gateway:      gw,
		Conversation: conversation.NewManager(512, "", "test", logger.NewNop()),
		Gate:         gate,
		History:      hist,
		Out:          out,
		Host:         domain.HostInfo{WorkingDir: "/tmp", Shell: "sh", OS: "linux"},
		Logger:       logger.NewNop(),
	}
	return svc, out, hist
}

func TestDispatchQuestionFlow(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "QUESTION", Tokens: 7}},
		{resp: domain.CompletionResponse{Content: "A symlink is a pointer file.", Tokens: 9}},
	}}
	svc, out, hist := newTestService(gw, &stubGate{})

	cont, err := svc.Dispatch(context.Background(), "what is a symlink")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cont {
		t.Fatal("session should continue after a question")
	}
	if len(out.answers) != 1 || out.answers[0] != "A symlink is a pointer file." {
		t.Fatalf("answers = %v, want the model reply", out.answers)
	}
	if svc.Session.TokensUsed != 16 {
		t.Errorf("TokensUsed = %d, want 16", svc.Session.TokensUsed)
	}
	if !strings.Contains(svc.Conversation.Rolling(), "symlink") {
		t.Errorf("rolling context %q should contain the interaction", svc.Conversation.Rolling())
	}
	if len(hist.records) != 1 || hist.records[0].Intent != "QUESTION" {
		t.Fatalf("history = %+v, want one QUESTION row", hist.records)
	}
	if hist.records[0].Tokens != 16 {
		t.Errorf("history tokens = %d, want 16", hist.records[0].Tokens)
	}
	if hist.records[0].ExitCode != -1 {
		t.Errorf("history exit code = %d, want -1 when no command ran", hist.records[0].ExitCode)
	}
}

func TestDispatchCommandFlow(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "COMMAND", Tokens: 5}},
		{resp: domain.CompletionResponse{Content: "df -h", Tokens: 11}},
	}}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 0, Output: "Filesystem Use%"}}
	svc, _, hist := newTestService(gw, gate)

	if _, err := svc.Dispatch(context.Background(), "show disk usage"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gate.runs) != 1 {
		t.Fatalf("gate runs = %d, want 1", len(gate.runs))
	}
	if gate.runs[0].command != "df -h" || gate.runs[0].preconfirmed {
		t.Errorf("gate run = %+v, want df -h without preconfirmation", gate.runs[0])
	}
	if len(hist.records) != 1 || hist.records[0].Command != "df -h" || hist.records[0].ExitCode != 0 {
		t.Fatalf("history = %+v, want one df -h row", hist.records)
	}
	if !strings.Contains(svc.Conversation.Rolling(), "Filesystem Use%") {
		t.Errorf("rolling context should contain captured output, got %q", svc.Conversation.Rolling())
	}
}

func TestDispatchCommandFailureTriggersAnalysis(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "COMMAND"}},
		{resp: domain.CompletionResponse{Content: "cat missing.txt"}},
		{resp: domain.CompletionResponse{Content: "The file does not exist."}},
	}}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 1, Output: "No such file"}}
	svc, out, hist := newTestService(gw, gate)

	if _, err := svc.Dispatch(context.Background(), "print missing.txt"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gw.calls) != 3 {
		t.Fatalf("gateway calls = %d, want classify + generate + failure analysis", len(gw.calls))
	}
	if !strings.Contains(gw.calls[2].UserContent, "Exit code: 1") {
		t.Errorf("failure analysis content = %q, want the exit code", gw.calls[2].UserContent)
	}
	if len(out.answers) != 1 || out.answers[0] != "The file does not exist." {
		t.Errorf("answers = %v, want the failure analysis", out.answers)
	}
	if hist.records[0].ExitCode != 1 {
		t.Errorf("history exit code = %d, want 1", hist.records[0].ExitCode)
	}
}

func TestRunDirectiveBypassesClassifier(t *testing.T) {
	gw := &scriptedGateway{}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 0, Output: "hi"}}
	svc, _, hist := newTestService(gw, gate)

	cont, err := svc.Dispatch(context.Background(), "/run echo hi")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cont {
		t.Fatal("session should continue after /run")
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway calls = %d, want 0 for /run", len(gw.calls))
	}
	if len(gate.runs) != 1 || !gate.runs[0].preconfirmed {
		t.Fatalf("gate runs = %+v, want one preconfirmed run", gate.runs)
	}
	if gate.runs[0].command != "echo hi" {
		t.Errorf("command = %q, want echo hi", gate.runs[0].command)
	}
	if len(hist.records) != 1 || hist.records[0].Intent != "COMMAND" {
		t.Fatalf("history = %+v, want one COMMAND row", hist.records)
	}
}

func TestAskDirectiveBypassesClassifier(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "Pipes connect processes."}},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})

	if _, err := svc.Dispatch(context.Background(), "/ask what is a pipe"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gw.calls) != 1 {
		t.Fatalf("gateway calls = %d, want exactly the question call", len(gw.calls))
	}
	if strings.Contains(gw.calls[0].SystemPrompt, "classify") {
		t.Errorf("system prompt %q should not be the classifier", gw.calls[0].SystemPrompt)
	}
	if len(out.answers) != 1 {
		t.Fatalf("answers = %v, want one", out.answers)
	}
}

func TestClassifierCircuitBreaker(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{err: domain.ErrEmptyResponse},
		{resp: domain.CompletionResponse{Content: "maybe you want a command?"}},
		{err: domain.ErrEmptyResponse},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cont, err := svc.Dispatch(ctx, "gibberish")
		if err != nil {
			t.Fatalf("Dispatch() attempt %d error = %v", i+1, err)
		}
		if !cont {
			t.Fatalf("session ended after %d failures, want 3", i+1)
		}
	}
	if len(out.warnings) != 2 {
		t.Fatalf("warnings = %v, want one per failed attempt", out.warnings)
	}

	cont, err := svc.Dispatch(ctx, "gibberish")
	if cont {
		t.Fatal("session should end when the circuit opens")
	}
	if !errors.Is(err, domain.ErrClassifierCircuitOpen) {
		t.Fatalf("error = %v, want ErrClassifierCircuitOpen", err)
	}
}

func TestQuotaNeverCountsAsClassificationFailure(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{err: domain.ErrQuotaExceeded},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})

	cont, err := svc.Dispatch(context.Background(), "list files")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cont {
		t.Fatal("quota ends the instruction, not the session")
	}
	if svc.Session.FailedClassifications != 0 {
		t.Errorf("FailedClassifications = %d, want 0", svc.Session.FailedClassifications)
	}
	if len(out.errorLines) != 1 {
		t.Fatalf("error lines = %v, want the quota diagnostic", out.errorLines)
	}
}

func TestClassificationSuccessResetsCounter(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{err: domain.ErrEmptyResponse},
		{resp: domain.CompletionResponse{Content: "QUESTION"}},
		{resp: domain.CompletionResponse{Content: "sure"}},
	}}
	svc, _, _ := newTestService(gw, &stubGate{})
	ctx := context.Background()

	if _, err := svc.Dispatch(ctx, "mumble"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if svc.Session.FailedClassifications != 1 {
		t.Fatalf("FailedClassifications = %d, want 1", svc.Session.FailedClassifications)
	}
	if _, err := svc.Dispatch(ctx, "what is tar"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if svc.Session.FailedClassifications != 0 {
		t.Errorf("FailedClassifications = %d, want 0 after a success", svc.Session.FailedClassifications)
	}
}

func TestRetrieveRemoteEmptyMakesNoSummaryCall(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "RETRIEVE"}},
		{resp: domain.CompletionResponse{Content: "REMOTE"}},
	}}
	svc, out, hist := newTestService(gw, &stubGate{})
	svc.Search = &stubSearch{result: domain.SearchResult{}}

	cont, err := svc.Dispatch(context.Background(), "latest go release")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cont {
		t.Fatal("empty retrieval should not end the session")
	}
	if len(gw.calls) != 2 {
		t.Fatalf("gateway calls = %d, want classify + routing only", len(gw.calls))
	}
	if len(out.warnings) == 0 || !strings.Contains(out.warnings[len(out.warnings)-1], "Nothing retrieved") {
		t.Errorf("warnings = %v, want the empty-retrieval diagnostic", out.warnings)
	}
	if len(hist.records) != 0 {
		t.Errorf("history = %+v, want no row for an empty retrieval", hist.records)
	}
}

func TestRetrieveRemoteFlow(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "RETRIEVE"}},
		{resp: domain.CompletionResponse{Content: "REMOTE"}},
		{resp: domain.CompletionResponse{Content: "Go 1.25 is out."}},
	}}
	svc, out, hist := newTestService(gw, &stubGate{})
	search := &stubSearch{result: domain.SearchResult{Message: "Go 1.25 released: ...", Source: "search"}}
	svc.Search = search

	if _, err := svc.Dispatch(context.Background(), "latest go release"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if search.queries != 1 {
		t.Fatalf("search queries = %d, want 1", search.queries)
	}
	if !strings.Contains(gw.calls[2].UserContent, "Go 1.25 released") {
		t.Errorf("summary content = %q, want the search material", gw.calls[2].UserContent)
	}
	if len(out.answers) != 1 || out.answers[0] != "Go 1.25 is out." {
		t.Errorf("answers = %v, want the summary", out.answers)
	}
	if len(hist.records) != 1 || hist.records[0].Intent != "RETRIEVE" {
		t.Fatalf("history = %+v, want one RETRIEVE row", hist.records)
	}
}

func TestRetrieveLocalFlow(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "RETRIEVE"}},
		{resp: domain.CompletionResponse{Content: "LOCAL"}},
		{resp: domain.CompletionResponse{Content: "free -m"}},
		{resp: domain.CompletionResponse{Content: "You have 3 GB free."}},
	}}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 0, Output: "Mem: 3000"}}
	svc, out, hist := newTestService(gw, gate)

	if _, err := svc.Dispatch(context.Background(), "how much memory is free"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gate.runs) != 1 || gate.runs[0].preconfirmed {
		t.Fatalf("gate runs = %+v, want one gated (not preconfirmed) run", gate.runs)
	}
	if gate.runs[0].command != "free -m" {
		t.Errorf("retrieval command = %q, want free -m", gate.runs[0].command)
	}
	if !strings.Contains(gw.calls[3].UserContent, "Mem: 3000") {
		t.Errorf("summary content = %q, want the captured output", gw.calls[3].UserContent)
	}
	if len(out.answers) != 1 {
		t.Fatalf("answers = %v, want the summary", out.answers)
	}
	if hist.records[0].Command != "free -m" {
		t.Errorf("history command = %q, want free -m", hist.records[0].Command)
	}
}

func TestRetrieveRoutingUnrecognizedDefaultsToLocal(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "RETRIEVE"}},
		{resp: domain.CompletionResponse{Content: "somewhere on the internet, probably"}},
		{resp: domain.CompletionResponse{Content: "uptime"}},
		{resp: domain.CompletionResponse{Content: "Up for two days."}},
	}}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 0, Output: "up 2 days"}}
	svc, _, _ := newTestService(gw, gate)

	if _, err := svc.Dispatch(context.Background(), "how long has this machine been up"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gate.runs) != 1 {
		t.Fatalf("gate runs = %d, want the local fallback to execute", len(gate.runs))
	}
}

func TestAnalyzeUsesRollingContextForPreviousOutput(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "ANALYZE"}},
		{resp: domain.CompletionResponse{Content: "The disk is nearly full."}},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})
	if err := svc.Conversation.Record("show disk => $ df -h => /dev/sda1 97%"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if _, err := svc.Dispatch(context.Background(), "explain the output"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gw.calls) != 2 {
		t.Fatalf("gateway calls = %d, want classify + analysis", len(gw.calls))
	}
	if !strings.Contains(gw.calls[1].UserContent, "/dev/sda1 97%") {
		t.Errorf("analysis content = %q, want the recorded output", gw.calls[1].UserContent)
	}
	if len(out.answers) != 1 {
		t.Fatalf("answers = %v, want the analysis", out.answers)
	}
}

func TestAnalyzePathReadsFileFirst(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "ANALYZE"}},
		{resp: domain.CompletionResponse{Content: "tail -n 50 /var/log/syslog"}},
		{resp: domain.CompletionResponse{Content: "Repeated OOM kills."}},
	}}
	gate := &stubGate{result: domain.CommandResult{Ran: true, ExitCode: 0, Output: "oom-killer invoked"}}
	svc, _, _ := newTestService(gw, gate)

	if _, err := svc.Dispatch(context.Background(), "anything odd in /var/log/syslog"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gate.runs) != 1 {
		t.Fatalf("gate runs = %d, want the file read to execute", len(gate.runs))
	}
	if !strings.Contains(gw.calls[2].UserContent, "oom-killer invoked") {
		t.Errorf("analysis content = %q, want the file material", gw.calls[2].UserContent)
	}
}

func TestSlashPathIsNotADirective(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "QUESTION"}},
		{resp: domain.CompletionResponse{Content: "That directory holds logs."}},
	}}
	svc, _, _ := newTestService(gw, &stubGate{})

	if _, err := svc.Dispatch(context.Background(), "/var/log is for what"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(gw.calls) != 2 {
		t.Fatalf("gateway calls = %d, want a slash path to reach the classifier", len(gw.calls))
	}
}

func TestClearDirectiveResetsContextAndCircuit(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{err: domain.ErrEmptyResponse},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})
	ctx := context.Background()

	if err := svc.Conversation.Record("some earlier interaction"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := svc.Dispatch(ctx, "mumble"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if svc.Session.FailedClassifications != 1 {
		t.Fatalf("FailedClassifications = %d, want 1", svc.Session.FailedClassifications)
	}

	cont, err := svc.Dispatch(ctx, "/clear")
	if err != nil || !cont {
		t.Fatalf("Dispatch(/clear) = (%v, %v), want (true, nil)", cont, err)
	}
	if svc.Conversation.Rolling() != "" {
		t.Errorf("rolling context = %q, want empty", svc.Conversation.Rolling())
	}
	if svc.Session.FailedClassifications != 0 {
		t.Errorf("FailedClassifications = %d, want 0", svc.Session.FailedClassifications)
	}
	joined := strings.Join(out.infos, "\n")
	if !strings.Contains(joined, "cleared") {
		t.Errorf("infos = %v, want a cleared confirmation", out.infos)
	}
}

func TestExitDirectives(t *testing.T) {
	for _, directive := range []string{"/bye", "/quit", "/q", "/BYE", "/bye now"} {
		gw := &scriptedGateway{}
		svc, _, _ := newTestService(gw, &stubGate{})
		cont, err := svc.Dispatch(context.Background(), directive)
		if err != nil {
			t.Fatalf("Dispatch(%q) error = %v", directive, err)
		}
		if cont {
			t.Errorf("Dispatch(%q) should end the session", directive)
		}
		if len(gw.calls) != 0 {
			t.Errorf("Dispatch(%q) made %d gateway calls, want 0", directive, len(gw.calls))
		}
	}
}

func TestCommandAbortStaysNeutral(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "COMMAND"}},
		{resp: domain.CompletionResponse{Content: "rm old.txt"}},
	}}
	gate := &stubGate{result: domain.CommandResult{Aborted: true}}
	svc, _, hist := newTestService(gw, gate)

	cont, err := svc.Dispatch(context.Background(), "delete old.txt")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !cont {
		t.Fatal("a declined confirmation should not end the session")
	}
	if len(gw.calls) != 2 {
		t.Fatalf("gateway calls = %d, want no failure analysis after an abort", len(gw.calls))
	}
	if len(hist.records) != 1 || hist.records[0].ExitCode != -1 {
		t.Fatalf("history = %+v, want one row with exit code -1", hist.records)
	}
	if !strings.Contains(svc.Conversation.Rolling(), "aborted") {
		t.Errorf("rolling context %q should note the abort", svc.Conversation.Rolling())
	}
}

func TestRunOnceRejectsEmptyInstruction(t *testing.T) {
	svc, _, _ := newTestService(&scriptedGateway{}, &stubGate{})
	if err := svc.RunOnce(context.Background(), "   "); !errors.Is(err, domain.ErrNoInput) {
		t.Fatalf("RunOnce() error = %v, want ErrNoInput", err)
	}
}

func TestRunInteractiveStopsOnExitDirective(t *testing.T) {
	gw := &scriptedGateway{replies: []completionStep{
		{resp: domain.CompletionResponse{Content: "QUESTION", Tokens: 3}},
		{resp: domain.CompletionResponse{Content: "Sure.", Tokens: 4}},
	}}
	svc, out, _ := newTestService(gw, &stubGate{})
	svc.Reader = &stubReader{lines: []string{"is this thing on", "/bye", "never read"}}

	if err := svc.RunInteractive(context.Background()); err != nil {
		t.Fatalf("RunInteractive() error = %v", err)
	}
	if len(out.answers) != 1 {
		t.Fatalf("answers = %v, want one before /bye", out.answers)
	}
	if out.tokenTotals[len(out.tokenTotals)-1] != 7 {
		t.Errorf("token line = %d, want 7", out.tokenTotals[len(out.tokenTotals)-1])
	}
}

// --- stubs -----------------------------------------------------------

type completionStep struct {
	resp domain.CompletionResponse
	err  error
}

type scriptedGateway struct {
	replies []completionStep
	calls   []domain.CompletionRequest
}

func (g *scriptedGateway) Provider() domain.Provider {
	return domain.ProviderOllama
}

func (g *scriptedGateway) Complete(_ context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	g.calls = append(g.calls, req)
	if len(g.replies) == 0 {
		return domain.CompletionResponse{}, domain.ErrEmptyResponse
	}
	step := g.replies[0]
	g.replies = g.replies[1:]
	return step.resp, step.err
}

type gateRun struct {
	command      string
	preconfirmed bool
}

type stubGate struct {
	assessment domain.Assessment
	result     domain.CommandResult
	err        error
	runs       []gateRun
}

func (g *stubGate) Assess(string) domain.Assessment {
	return g.assessment
}

func (g *stubGate) Run(_ context.Context, command string, preconfirmed bool) (domain.CommandResult, error) {
	g.runs = append(g.runs, gateRun{command: command, preconfirmed: preconfirmed})
	result := g.result
	if result.Command == "" {
		result.Command = command
	}
	return result, g.err
}

type stubSearch struct {
	result  domain.SearchResult
	err     error
	queries int
}

func (s *stubSearch) Name() string {
	return "stub"
}

func (s *stubSearch) Search(context.Context, string) (domain.SearchResult, error) {
	s.queries++
	return s.result, s.err
}

type memoryHistory struct {
	records []domain.HistoryRecord
}

func (m *memoryHistory) Save(rec domain.HistoryRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryHistory) Records(int, string) ([]domain.HistoryRecord, error) {
	return m.records, nil
}

func (m *memoryHistory) Clear() error {
	m.records = nil
	return nil
}

func (m *memoryHistory) Close() error { return nil }

type captureRenderer struct {
	infos       []string
	warnings    []string
	errorLines  []string
	answers     []string
	tokenTotals []int
}

func (c *captureRenderer) Info(msg string)    { c.infos = append(c.infos, msg) }
func (c *captureRenderer) Warn(msg string)    { c.warnings = append(c.warnings, msg) }
func (c *captureRenderer) Error(msg string)   { c.errorLines = append(c.errorLines, msg) }
func (c *captureRenderer) Answer(text string) { c.answers = append(c.answers, text) }
func (c *captureRenderer) Tokens(total int)   { c.tokenTotals = append(c.tokenTotals, total) }

type stubReader struct {
	lines []string
}

func (r *stubReader) Read() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *stubReader) Close() error { return nil }
