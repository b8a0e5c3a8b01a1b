package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/auth"
	"quiz-assessment-service/internal/infra/memory"
)

type testEnv struct {
	server *httptest.Server
	feed   *app.ScoreFeed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := memory.NewUserStore()
	questions := memory.NewQuestionCache(memory.NewQuestionStore(), time.Minute)
	attempts := memory.NewAttemptStore()
	feed := app.NewScoreFeed()

	authService := app.NewAuthService(users, memory.NewRevocationStore(), auth.NewTokenIssuer("test-secret", "quiz-test", time.Hour))
	if err := app.Seed(context.Background(), authService, questions); err != nil {
		t.Fatalf("seed: %v", err)
	}

	handler := NewRouter(Services{
		Auth:      authService,
		Questions: app.NewQuestionService(questions),
		Quiz:      app.NewQuizService(questions, attempts, feed, app.QuizSettings{}),
		Feed:      feed,
	}, nil)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &testEnv{server: server, feed: feed}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	if out != nil && resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	var session struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	status := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password}, &session)
	if status != http.StatusOK || session.Token == "" {
		t.Fatalf("login %s: status %d", username, status)
	}
	return session.Token
}

type startedQuiz struct {
	QuizAttemptID string           `json:"quizAttemptId"`
	Questions     []map[string]any `json:"questions"`
}

type quizResult struct {
	QuizAttemptID   string `json:"quizAttemptId"`
	Score           int    `json:"score"`
	TotalQuestions  int    `json:"totalQuestions"`
	QuestionResults []struct {
		QuestionID       string  `json:"questionId"`
		SelectedOptionID *string `json:"selectedOptionId"`
		IsCorrect        bool    `json:"isCorrect"`
	} `json:"questionResults"`
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Count *int   `json:"count"`
}

func TestQuizFlow(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	userToken := env.login(t, "user", "user123")

	var questions []struct {
		ID      string `json:"id"`
		Options []struct {
			ID        string `json:"id"`
			IsCorrect bool   `json:"isCorrect"`
		} `json:"options"`
	}
	if status := env.do(t, http.MethodGet, "/api/questions", adminToken, nil, &questions); status != http.StatusOK {
		t.Fatalf("list questions: status %d", status)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 seeded questions, got %d", len(questions))
	}
	correct := make(map[string]string)
	wrong := make(map[string]string)
	for _, q := range questions {
		for _, o := range q.Options {
			if o.IsCorrect {
				correct[q.ID] = o.ID
			} else {
				wrong[q.ID] = o.ID
			}
		}
	}

	var started startedQuiz
	if status := env.do(t, http.MethodPost, "/api/quiz/start", userToken, nil, &started); status != http.StatusOK {
		t.Fatalf("start: status %d", status)
	}
	if started.QuizAttemptID == "" || len(started.Questions) != 3 {
		t.Fatalf("unexpected started quiz: %+v", started)
	}
	for _, q := range started.Questions {
		for _, o := range q["options"].([]any) {
			if _, leaked := o.(map[string]any)["isCorrect"]; leaked {
				t.Fatalf("correctness flag served to learner: %v", o)
			}
		}
	}

	ids := []string{started.Questions[0]["id"].(string), started.Questions[1]["id"].(string)}
	body := map[string]any{
		"quizAttemptId": started.QuizAttemptID,
		"answers": []map[string]any{
			{"questionId": ids[0], "selectedOptionId": wrong[ids[0]]},
			{"questionId": ids[0], "selectedOptionId": correct[ids[0]]},
			{"questionId": ids[1], "selectedOptionId": nil},
			{"questionId": "unknown", "selectedOptionId": "x"},
		},
	}
	var result quizResult
	if status := env.do(t, http.MethodPost, "/api/quiz/submit", userToken, body, &result); status != http.StatusOK {
		t.Fatalf("submit: status %d", status)
	}
	if result.Score != 1 || result.TotalQuestions != 3 || len(result.QuestionResults) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.QuestionResults[1].SelectedOptionID != nil || result.QuestionResults[1].IsCorrect {
		t.Fatalf("expected unanswered second question, got %+v", result.QuestionResults[1])
	}

	var conflict apiError
	if status := env.do(t, http.MethodPost, "/api/quiz/submit", userToken, body, &conflict); status != http.StatusConflict {
		t.Fatalf("duplicate submit: status %d", status)
	}
	if conflict.Code != "ATTEMPT_ALREADY_GRADED" {
		t.Fatalf("unexpected conflict code %q", conflict.Code)
	}

	var scores []struct {
		QuizAttemptID string `json:"quizAttemptId"`
		Score         int    `json:"score"`
	}
	if status := env.do(t, http.MethodGet, "/api/scores", userToken, nil, &scores); status != http.StatusOK {
		t.Fatalf("scores: status %d", status)
	}
	if len(scores) != 1 || scores[0].Score != 1 || scores[0].QuizAttemptID != started.QuizAttemptID {
		t.Fatalf("unexpected scores: %+v", scores)
	}

	var stored quizResult
	if status := env.do(t, http.MethodGet, "/api/scores/"+started.QuizAttemptID, userToken, nil, &stored); status != http.StatusOK {
		t.Fatalf("result: status %d", status)
	}
	if stored.Score != result.Score || len(stored.QuestionResults) != 3 {
		t.Fatalf("stored result differs: %+v", stored)
	}

	if status := env.do(t, http.MethodGet, "/api/scores/"+started.QuizAttemptID, adminToken, nil, nil); status != http.StatusNotFound {
		t.Fatalf("other user's attempt: status %d", status)
	}
}

func TestQuestionAuthoring(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "admin123")
	userToken := env.login(t, "user", "user123")

	valid := map[string]any{
		"questionText": "  Largest ocean?  ",
		"options": []map[string]any{
			{"optionText": "Pacific", "isCorrect": true},
			{"optionText": "   "},
			{"optionText": "Atlantic"},
		},
	}
	if status := env.do(t, http.MethodPost, "/api/questions", userToken, valid, nil); status != http.StatusForbidden {
		t.Fatalf("user create: status %d", status)
	}

	var created struct {
		ID      string `json:"id"`
		Text    string `json:"questionText"`
		Options []struct {
			ID   string `json:"id"`
			Text string `json:"optionText"`
		} `json:"options"`
	}
	if status := env.do(t, http.MethodPost, "/api/questions", adminToken, valid, &created); status != http.StatusCreated {
		t.Fatalf("create: status %d", status)
	}
	if created.Text != "Largest ocean?" || len(created.Options) != 2 {
		t.Fatalf("unexpected created question: %+v", created)
	}

	cases := []struct {
		name  string
		body  map[string]any
		code  string
		count int
	}{
		{"empty text", map[string]any{"questionText": " ", "options": []map[string]any{{"optionText": "a", "isCorrect": true}, {"optionText": "b"}}}, "EMPTY_QUESTION_TEXT", -1},
		{"one option", map[string]any{"questionText": "q", "options": []map[string]any{{"optionText": "a", "isCorrect": true}, {"optionText": ""}}}, "INSUFFICIENT_OPTIONS", 1},
		{"no correct", map[string]any{"questionText": "q", "options": []map[string]any{{"optionText": "a"}, {"optionText": "b"}}}, "NO_CORRECT_OPTION", -1},
		{"two correct", map[string]any{"questionText": "q", "options": []map[string]any{{"optionText": "a", "isCorrect": true}, {"optionText": "b", "isCorrect": true}}}, "MULTIPLE_CORRECT_OPTIONS", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var apiErr apiError
			if status := env.do(t, http.MethodPut, "/api/questions/"+created.ID, adminToken, tc.body, &apiErr); status != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", status)
			}
			if apiErr.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, apiErr.Code)
			}
			if tc.count >= 0 && (apiErr.Count == nil || *apiErr.Count != tc.count) {
				t.Fatalf("expected count %d, got %v", tc.count, apiErr.Count)
			}
		})
	}

	padded := map[string]any{
		"questionText": strings.Repeat(" ", 600),
		"options": []map[string]any{
			{"optionText": "Pacific" + strings.Repeat(" ", 300), "isCorrect": true},
			{"optionText": strings.Repeat(" ", 300)},
			{"optionText": "Atlantic"},
		},
	}
	var apiErr apiError
	if status := env.do(t, http.MethodPost, "/api/questions", adminToken, padded, &apiErr); status != http.StatusUnprocessableEntity {
		t.Fatalf("whitespace-only text: expected 422, got %d", status)
	}
	if apiErr.Code != "EMPTY_QUESTION_TEXT" {
		t.Fatalf("whitespace-only text: expected EMPTY_QUESTION_TEXT, got %s", apiErr.Code)
	}

	update := map[string]any{
		"questionText": "Smallest ocean?",
		"options": []map[string]any{
			{"optionText": "Arctic", "isCorrect": true},
			{"optionText": "Indian"},
		},
	}
	if status := env.do(t, http.MethodPut, "/api/questions/"+created.ID, adminToken, update, &created); status != http.StatusOK {
		t.Fatalf("update: status %d", status)
	}
	if created.Text != "Smallest ocean?" || created.Options[0].Text != "Arctic" {
		t.Fatalf("update not applied: %+v", created)
	}

	if status := env.do(t, http.MethodDelete, "/api/questions/"+created.ID, adminToken, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status := env.do(t, http.MethodGet, "/api/questions/"+created.ID, adminToken, nil, nil); status != http.StatusNotFound {
		t.Fatalf("get deleted: status %d", status)
	}
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	if status := env.do(t, http.MethodGet, "/api/scores", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("anonymous scores: status %d", status)
	}
	if status := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"username": "ab", "password": "secret1", "email": "x@y.z"}, nil); status != http.StatusBadRequest {
		t.Fatalf("short username: status %d", status)
	}

	var session struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	signup := map[string]string{"username": "alice", "password": "secret1", "email": "alice@example.com"}
	if status := env.do(t, http.MethodPost, "/api/auth/signup", "", signup, &session); status != http.StatusCreated {
		t.Fatalf("signup: status %d", status)
	}
	if session.Role != "USER" {
		t.Fatalf("signup role %q", session.Role)
	}
	if status := env.do(t, http.MethodPost, "/api/auth/signup", "", signup, nil); status != http.StatusConflict {
		t.Fatalf("duplicate signup: status %d", status)
	}
	if status := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong"}, nil); status != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", status)
	}

	var me struct {
		Username string `json:"username"`
	}
	if status := env.do(t, http.MethodGet, "/api/auth/me", session.Token, nil, &me); status != http.StatusOK || me.Username != "alice" {
		t.Fatalf("me: status %d, %+v", status, me)
	}
	if status := env.do(t, http.MethodPost, "/api/auth/logout", session.Token, nil, nil); status != http.StatusNoContent {
		t.Fatalf("logout: status %d", status)
	}
	if status := env.do(t, http.MethodGet, "/api/auth/me", session.Token, nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d", status)
	}
}
