package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"verva-api/pomodoro"
)

func decodePomodoroBody(t *testing.T, rec *httptest.ResponseRecorder) pomodoroResponse {
	t.Helper()
	var resp pomodoroResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestGetPomodoroDefaults(t *testing.T) {
	e := echo.New()
	timers := newTimerRegistry(log.New())
	req := newJSONRequest(http.MethodGet, "/api/pomodoro", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := getPomodoro(testDeps(&mockStore{}), timers)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	resp := decodePomodoroBody(t, rec)
	if resp.Mode != pomodoro.ModeWork || resp.Remaining != 25*60 || resp.Running {
		t.Fatalf("unexpected initial state: %#v", resp)
	}
}

func TestPomodoroActions(t *testing.T) {
	e := echo.New()
	timers := newTimerRegistry(log.New())
	d := testDeps(&mockStore{})

	invoke := func(action string) (*httptest.ResponseRecorder, pomodoroResponse) {
		req := newJSONRequest(http.MethodPost, "/api/pomodoro/"+action, "")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("action")
		c.SetParamValues(action)
		if err := pomodoroAction(d, timers)(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			return rec, pomodoroResponse{}
		}
		return rec, decodePomodoroBody(t, rec)
	}

	if _, resp := invoke("start"); !resp.Running {
		t.Fatalf("expected running after start, got %#v", resp)
	}
	if _, resp := invoke("pause"); resp.Running {
		t.Fatalf("expected stopped after pause, got %#v", resp)
	}
	if _, resp := invoke("reset"); resp.Running || resp.Remaining != 25*60 {
		t.Fatalf("expected full work duration after reset, got %#v", resp)
	}
	if rec, _ := invoke("destroy"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown action, got %d", rec.Code)
	}
}

func TestPomodoroNoticeDeliveredOnce(t *testing.T) {
	e := echo.New()
	timers := newTimerRegistry(log.New())
	timers.forUser("user").setNotice(pomodoro.ModeBreak)

	read := func() pomodoroResponse {
		req := newJSONRequest(http.MethodGet, "/api/pomodoro", "")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := getPomodoro(testDeps(&mockStore{}), timers)(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return decodePomodoroBody(t, rec)
	}

	if resp := read(); resp.Notice != breakStartNotice {
		t.Fatalf("expected break notice on first read, got %#v", resp)
	}
	if resp := read(); resp.Notice != "" {
		t.Fatalf("expected notice consumed, got %#v", resp)
	}
}

func TestTimerRegistryIsPerUser(t *testing.T) {
	timers := newTimerRegistry(log.New())
	a := timers.forUser("a")
	b := timers.forUser("b")
	if a == b {
		t.Fatal("expected distinct timers per user")
	}
	if again := timers.forUser("a"); again != a {
		t.Fatal("expected timer reuse for the same user")
	}
}

func TestUserTimerNoticeByMode(t *testing.T) {
	u := &userTimer{timer: pomodoro.New(pomodoro.Config{})}
	u.setNotice(pomodoro.ModeBreak)
	if got := u.state().Notice; got != breakStartNotice {
		t.Fatalf("unexpected break notice: %q", got)
	}
	u.setNotice(pomodoro.ModeWork)
	if got := u.state().Notice; got != workStartNotice {
		t.Fatalf("unexpected work notice: %q", got)
	}
}
