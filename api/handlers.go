package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"verva-api/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	if d.Logger == nil {
		panic("api.Register: logger is not initialized")
	}

	e.GET("/healthz", healthz())

	e.POST("/api/auth/signup", signUp(d))
	e.POST("/api/auth/signin", signIn(d))
	e.POST("/api/auth/google", signInWithGoogle(d))
	e.POST("/api/auth/signout", signOut(d))

	e.GET("/api/tasks", getTasks(d))
	e.POST("/api/tasks", createTask(d))
	e.POST("/api/tasks/:id/toggle", toggleTask(d))
	e.PATCH("/api/tasks/:id", updateTask(d))
	e.DELETE("/api/tasks/:id", deleteTask(d))

	e.POST("/api/assistant", assistantChat(d))
	e.GET("/api/analytics", getAnalytics(d))

	timers := newTimerRegistry(d.Logger)
	e.GET("/api/pomodoro", getPomodoro(d, timers))
	e.POST("/api/pomodoro/:action", pomodoroAction(d, timers))
	e.GET("/api/pomodoro/stream", streamPomodoro(d, timers))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

var errSignedOut = errors.New("session signed out")

// authenticate resolves the calling user from the Authorization header and
// rejects tokens that were explicitly signed out.
func authenticate(c echo.Context, d Deps) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	userID, err := d.Auth.UserIDFromAuthHeader(header)
	if err != nil {
		return "", err
	}
	if d.Revocations != nil {
		if token, terr := bearerTokenFromHeader(c.Request().Header); terr == nil &&
			d.Revocations.Revoked(c.Request().Context(), string(token)) {
			return "", errSignedOut
		}
	}
	return userID, nil
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func getTasks(d Deps) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newTaskRequestMetrics(c.Request().Context(), d.Logger)
		c.SetRequest(c.Request().WithContext(ctx))
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, authErr := authenticate(c, d)
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}

		filter := domain.ParseFilter(c.QueryParam("filter"))
		metrics.SetFilter(string(filter))

		fetchStart := time.Now()
		tasks, fetchErr := d.Store.List(ctx, userID, filter)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.String(http.StatusInternalServerError, fetchErr.Error())
			return err
		}
		metrics.SetTasksReturned(len(tasks))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func createTask(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}

		// A blank title is a silent no-op: the handler still answers 200
		// with the unchanged collection.
		tasks, err := d.Store.Add(c.Request().Context(), userID, req.Title, req.Priority, req.DueDate)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func toggleTask(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		tasks, err := d.Store.Toggle(c.Request().Context(), userID, c.Param("id"))
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func updateTask(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var patch domain.TaskPatch
		if err := decodeBody(c, &patch); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		tasks, err := d.Store.Update(c.Request().Context(), userID, c.Param("id"), patch)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func deleteTask(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		tasks, err := d.Store.Delete(c.Request().Context(), userID, c.Param("id"))
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks})
	}
}

func assistantChat(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var req assistantRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Message == "" {
			return c.String(http.StatusBadRequest, "empty message")
		}

		ctx := c.Request().Context()
		tasks, err := d.Store.List(ctx, userID, domain.FilterAll)
		if err != nil {
			// The assistant contract is degrade-gracefully: answer without
			// task context rather than failing the chat turn.
			c.Logger().Error(err)
			tasks = nil
		}

		reply := d.Assistant.GetResponse(ctx, req.Message, req.History, tasks)
		return c.JSON(http.StatusOK, assistantResponse{Reply: reply})
	}
}

func getAnalytics(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := authenticate(c, d)
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		tasks, err := d.Store.List(c.Request().Context(), userID, domain.FilterAll)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		completed := 0
		for _, t := range tasks {
			if t.Completed {
				completed++
			}
		}
		return c.JSON(http.StatusOK, analyticsResponse{
			Score:     domain.ProductivityScore(tasks),
			Total:     len(tasks),
			Completed: completed,
			Weekly:    domain.WeeklyCompletion(tasks),
			Breakdown: domain.Breakdown(tasks),
		})
	}
}
