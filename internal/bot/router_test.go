package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/career-center-bot/internal/notify"
	"github.com/spigell/career-center-bot/internal/store"

	"go.uber.org/zap"
)

const testAdminID = 100

type stubNotifier struct {
	notices []notify.Notice
}

func (s *stubNotifier) Notify(_ context.Context, n notify.Notice) []notify.Outcome {
	s.notices = append(s.notices, n)
	return nil
}

func newTestRouter(t *testing.T) (*Router, *store.Store, *stubNotifier) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	notifier := &stubNotifier{}
	router := NewRouter(st, st, notifier, testAdminID, zap.NewNop())

	return router, st, notifier
}

func command(userID int64, payload string) Event {
	return Event{Kind: KindCommand, UserID: userID, Payload: payload}
}

func callback(userID int64, payload string) Event {
	return Event{Kind: KindCallback, UserID: userID, Payload: payload, Username: "applicant", FullName: "Test Applicant"}
}

func buttonTokens(r *Reply) []string {
	var tokens []string
	if r == nil || r.Keyboard == nil {
		return tokens
	}
	for _, row := range r.Keyboard.InlineKeyboard {
		for _, b := range row {
			tokens = append(tokens, b.CallbackData)
		}
	}
	return tokens
}

func TestStartRendersMainMenu(t *testing.T) {
	router, _, _ := newTestRouter(t)

	reply, err := router.Handle(context.Background(), command(1, "start"))
	if err != nil {
		t.Fatalf("handle start: %v", err)
	}
	if reply == nil {
		t.Fatalf("expected a main menu reply")
	}
	if reply.Text != textWelcome {
		t.Errorf("text = %q, want %q", reply.Text, textWelcome)
	}

	tokens := buttonTokens(reply)
	expected := []string{"evt_career", "evt_practice", "all_vacancies", "noop"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d buttons, got %d", len(expected), len(tokens))
	}
	for i, token := range expected {
		if tokens[i] != token {
			t.Errorf("button %d token = %q, want %q", i, tokens[i], token)
		}
	}
}

func TestStartIsSilentForBlacklisted(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()

	// Scenario: the admin blacklists user 42, then 42 sends /start.
	reply, err := router.Handle(ctx, command(testAdminID, "blacklist 42"))
	if err != nil {
		t.Fatalf("handle blacklist: %v", err)
	}
	if reply == nil || reply.Text != "Пользователь 42 в чёрном списке" {
		t.Fatalf("unexpected admin reply: %+v", reply)
	}

	blocked, err := st.Blacklisted(ctx, 42)
	if err != nil || !blocked {
		t.Fatalf("expected 42 blacklisted, got %t, %v", blocked, err)
	}

	reply, err = router.Handle(ctx, command(42, "start"))
	if err != nil {
		t.Fatalf("handle start: %v", err)
	}
	if reply != nil {
		t.Fatalf("expected no output at all, got %+v", reply)
	}
}

func TestCatalogPageNavigation(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := st.CreateVacancy(ctx, fmt.Sprintf("Vacancy %d", i+1), "Description", "Remote"); err != nil {
			t.Fatalf("seed vacancy: %v", err)
		}
	}

	reply, err := router.Handle(ctx, callback(1, "all_vacancies"))
	if err != nil {
		t.Fatalf("handle all_vacancies: %v", err)
	}
	if reply == nil || reply.Text != textVacancyList {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	tokens := buttonTokens(reply)
	// 5 vacancies, a lone "next" control, the main menu button.
	if len(tokens) != 7 {
		t.Fatalf("expected 7 buttons on page 0, got %d: %v", len(tokens), tokens)
	}
	if tokens[5] != "vac_page_1" {
		t.Errorf("next control token = %q, want vac_page_1", tokens[5])
	}

	reply, err = router.Handle(ctx, callback(1, "vac_page_1"))
	if err != nil {
		t.Fatalf("handle vac_page_1: %v", err)
	}

	tokens = buttonTokens(reply)
	// 1 vacancy, a lone "previous" control, the main menu button.
	if len(tokens) != 3 {
		t.Fatalf("expected 3 buttons on page 1, got %d: %v", len(tokens), tokens)
	}
	if tokens[1] != "vac_page_0" {
		t.Errorf("previous control token = %q, want vac_page_0", tokens[1])
	}
}

func TestAddVacancyAndDetail(t *testing.T) {
	router, _, _ := newTestRouter(t)
	ctx := context.Background()

	reply, err := router.Handle(ctx, command(testAdminID, "addvac Backend Engineer|Build services|Remote"))
	if err != nil {
		t.Fatalf("handle addvac: %v", err)
	}
	if reply == nil || reply.Text != textVacancyAdded {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	reply, err = router.Handle(ctx, callback(1, "vac_1"))
	if err != nil {
		t.Fatalf("handle vac_1: %v", err)
	}
	if reply == nil {
		t.Fatalf("expected a detail screen")
	}
	for _, part := range []string{"Backend Engineer", "Build services", "Город: Remote"} {
		if !strings.Contains(reply.Text, part) {
			t.Errorf("detail text %q missing %q", reply.Text, part)
		}
	}

	tokens := buttonTokens(reply)
	if len(tokens) != 2 || tokens[0] != "respond_vac_1" {
		t.Fatalf("unexpected detail buttons: %v", tokens)
	}
}

func TestAddVacancyRejectsMalformedArgs(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing separators", payload: "addvac just a title"},
		{name: "too many fields", payload: "addvac a|b|c|d"},
		{name: "empty field", payload: "addvac a||c"},
		{name: "no args", payload: "addvac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := router.Handle(ctx, command(testAdminID, tt.payload))
			if err != nil {
				t.Fatalf("handle: %v", err)
			}
			if reply == nil || reply.Text != usageAddVacancy {
				t.Fatalf("expected usage reply, got %+v", reply)
			}
		})
	}

	if _, total, err := st.ListVacancies(ctx, 0); err != nil || total != 0 {
		t.Fatalf("malformed commands must not write: total %d, %v", total, err)
	}
}

func TestAdminCommandsIgnoredForOthers(t *testing.T) {
	router, st, _ := newTestRouter(t)
	ctx := context.Background()

	for _, payload := range []string{"addvac a|b|c", "toggle career", "blacklist 7"} {
		reply, err := router.Handle(ctx, command(1, payload))
		if err != nil {
			t.Fatalf("handle %q: %v", payload, err)
		}
		if reply != nil {
			t.Fatalf("non-admin %q must produce no reply, got %+v", payload, reply)
		}
	}

	if _, total, err := st.ListVacancies(ctx, 0); err != nil || total != 0 {
		t.Fatalf("non-admin commands must not write: total %d, %v", total, err)
	}
	if blocked, err := st.Blacklisted(ctx, 7); err != nil || blocked {
		t.Fatalf("non-admin blacklist must not write: %t, %v", blocked, err)
	}
}

func TestToggleDisablesEventSection(t *testing.T) {
	router, _, _ := newTestRouter(t)
	ctx := context.Background()

	// The event is reachable while the toggle stays on its default.
	reply, err := router.Handle(ctx, callback(1, "evt_career"))
	if err != nil {
		t.Fatalf("handle evt_career: %v", err)
	}
	if reply == nil || reply.Alert != "" {
		t.Fatalf("expected the event screen, got %+v", reply)
	}

	reply, err = router.Handle(ctx, command(testAdminID, "toggle career"))
	if err != nil {
		t.Fatalf("handle toggle: %v", err)
	}
	if reply == nil || reply.Text != "career = false" {
		t.Fatalf("unexpected toggle reply: %+v", reply)
	}

	reply, err = router.Handle(ctx, callback(1, "evt_career"))
	if err != nil {
		t.Fatalf("handle evt_career: %v", err)
	}
	if reply == nil || reply.Alert != textUnavailable || !reply.ShowAlert {
		t.Fatalf("expected the unavailable alert, got %+v", reply)
	}

	// A second flip restores the section.
	if _, err := router.Handle(ctx, command(testAdminID, "toggle career")); err != nil {
		t.Fatalf("handle toggle: %v", err)
	}
	reply, err = router.Handle(ctx, callback(1, "evt_career"))
	if err != nil {
		t.Fatalf("handle evt_career: %v", err)
	}
	if reply == nil || reply.Alert != "" {
		t.Fatalf("expected the event screen after the second flip, got %+v", reply)
	}
}

func TestRespondToEventNotifies(t *testing.T) {
	router, _, notifier := newTestRouter(t)

	reply, err := router.Handle(context.Background(), callback(1, "respond_evt_career"))
	if err != nil {
		t.Fatalf("handle respond: %v", err)
	}
	if reply == nil || reply.Text != textConfirmation {
		t.Fatalf("expected the confirmation screen, got %+v", reply)
	}

	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notifier.notices))
	}

	notice := notifier.notices[0]
	if notice.Subject != "Новый отклик" {
		t.Errorf("subject = %q", notice.Subject)
	}
	for _, part := range []string{"@applicant", "Вакансия: career", "Имя: Test Applicant"} {
		if !strings.Contains(notice.Body, part) {
			t.Errorf("notice body %q missing %q", notice.Body, part)
		}
	}
}

func TestRespondToVacancyUsesTitle(t *testing.T) {
	router, st, notifier := newTestRouter(t)
	ctx := context.Background()

	id, err := st.CreateVacancy(ctx, "Backend Engineer", "Build services", "Remote")
	if err != nil {
		t.Fatalf("create vacancy: %v", err)
	}

	reply, err := router.Handle(ctx, callback(1, fmt.Sprintf("respond_vac_%d", id)))
	if err != nil {
		t.Fatalf("handle respond: %v", err)
	}
	if reply == nil || reply.Text != textConfirmation {
		t.Fatalf("expected the confirmation screen, got %+v", reply)
	}

	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notifier.notices))
	}
	if !strings.Contains(notifier.notices[0].Body, "Вакансия: Backend Engineer") {
		t.Errorf("notice body %q missing the vacancy title", notifier.notices[0].Body)
	}
}

func TestRespondIsSilentForBlacklisted(t *testing.T) {
	router, st, notifier := newTestRouter(t)
	ctx := context.Background()

	if err := st.AddToBlacklist(ctx, 42); err != nil {
		t.Fatalf("blacklist: %v", err)
	}

	reply, err := router.Handle(ctx, callback(42, "respond_evt_career"))
	if err != nil {
		t.Fatalf("handle respond: %v", err)
	}
	if reply != nil {
		t.Fatalf("expected silent suppression, got %+v", reply)
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("suppressed responses must not notify, got %d notices", len(notifier.notices))
	}
}

func TestVacancyLookupsHandleAbsentIDs(t *testing.T) {
	router, _, notifier := newTestRouter(t)
	ctx := context.Background()

	for _, payload := range []string{"vac_999", "respond_vac_999"} {
		reply, err := router.Handle(ctx, callback(1, payload))
		if err != nil {
			t.Fatalf("handle %q: %v", payload, err)
		}
		if reply == nil || reply.Text != textVacancyGone {
			t.Fatalf("expected the not-found screen for %q, got %+v", payload, reply)
		}
	}

	if len(notifier.notices) != 0 {
		t.Fatalf("a response to an absent vacancy must not notify")
	}
}

func TestMalformedCallbackYieldsAlert(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, payload := range []string{"vac_page_abc", "bogus", "respond_xyz_1"} {
		reply, err := router.Handle(context.Background(), callback(1, payload))
		if err != nil {
			t.Fatalf("handle %q: %v", payload, err)
		}
		if reply == nil || reply.Alert != textUnknown {
			t.Fatalf("expected a guidance alert for %q, got %+v", payload, reply)
		}
	}
}

func TestNoopShowsGuidance(t *testing.T) {
	router, _, _ := newTestRouter(t)

	reply, err := router.Handle(context.Background(), callback(1, "noop"))
	if err != nil {
		t.Fatalf("handle noop: %v", err)
	}
	if reply == nil || reply.Alert != textNoopHint || !reply.ShowAlert {
		t.Fatalf("expected the noop guidance alert, got %+v", reply)
	}
}

func TestMainReturnsToMenu(t *testing.T) {
	router, _, _ := newTestRouter(t)

	reply, err := router.Handle(context.Background(), callback(1, "main"))
	if err != nil {
		t.Fatalf("handle main: %v", err)
	}
	if reply == nil || reply.Text != textMainMenu {
		t.Fatalf("expected the main menu, got %+v", reply)
	}
}
