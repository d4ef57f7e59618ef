package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"verva-api/pomodoro"
)

const (
	breakStartNotice = "Great work! Take a 5-minute break."
	workStartNotice  = "Break's over! Let's focus."
)

type pomodoroResponse struct {
	Mode      pomodoro.Mode `json:"mode"`
	Remaining int           `json:"remaining"`
	Running   bool          `json:"running"`
	Notice    string        `json:"notice,omitempty"`
}

// userTimer pairs a countdown with its pending transition notice. The notice
// is delivered at most once, on the first state read after the transition.
type userTimer struct {
	timer *pomodoro.Timer

	mu     sync.Mutex
	notice string
}

func (u *userTimer) setNotice(next pomodoro.Mode) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if next == pomodoro.ModeBreak {
		u.notice = breakStartNotice
	} else {
		u.notice = workStartNotice
	}
}

func (u *userTimer) state() pomodoroResponse {
	snap := u.timer.Snapshot()
	u.mu.Lock()
	notice := u.notice
	u.notice = ""
	u.mu.Unlock()
	return pomodoroResponse{
		Mode:      snap.Mode,
		Remaining: snap.Remaining,
		Running:   snap.Running,
		Notice:    notice,
	}
}

// timerRegistry lazily creates one countdown per user and keeps it for the
// lifetime of the process.
type timerRegistry struct {
	mu     sync.Mutex
	timers map[string]*userTimer
	logger *log.Logger
}

func newTimerRegistry(logger *log.Logger) *timerRegistry {
	return &timerRegistry{
		timers: make(map[string]*userTimer),
		logger: logger,
	}
}

func (r *timerRegistry) forUser(userID string) *userTimer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.timers[userID]; ok {
		return u
	}
	u := &userTimer{}
	u.timer = pomodoro.New(pomodoro.Config{
		OnTransition: func(next pomodoro.Mode) {
			u.setNotice(next)
			r.logger.WithFields(log.Fields{
				"user_id": userID,
				"mode":    string(next),
			}).Info("pomodoro.transition")
		},
	})
	r.timers[userID] = u
	return u
}

func getPomodoro(d Deps, timers *timerRegistry) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		return c.JSON(http.StatusOK, timers.forUser(userID).state())
	}
}

func pomodoroAction(d Deps, timers *timerRegistry) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		u := timers.forUser(userID)
		switch c.Param("action") {
		case "start":
			u.timer.Start()
		case "pause":
			u.timer.Pause()
		case "reset":
			u.timer.Reset()
		default:
			return c.String(http.StatusBadRequest, "unknown action")
		}
		return c.JSON(http.StatusOK, u.state())
	}
}

// streamPomodoro pushes the timer state once per second as server-sent
// events. EventSource cannot set headers, so the token may arrive as a query
// parameter instead.
func streamPomodoro(d Deps, timers *timerRegistry) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if auth == "" {
			if token := c.QueryParam("token"); token != "" {
				c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			}
		}
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}

		u := timers.forUser(userID)
		ctx := c.Request().Context()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			data, merr := sonic.Marshal(u.state())
			if merr == nil {
				if _, err := c.Response().Write([]byte("data: ")); err != nil {
					return nil
				}
				if _, err := c.Response().Write(data); err != nil {
					return nil
				}
				if _, err := c.Response().Write([]byte("\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				continue
			}
		}
	}
}
