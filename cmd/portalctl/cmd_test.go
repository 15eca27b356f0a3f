package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
	"github.com/sadhana-school/portal/internal/infrastructure/filestore"
)

type fakeSchool struct {
	profiles   []domain.StudentProfile
	registered []map[string]any
}

func (f *fakeSchool) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Invalid email or password"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer"}`)
	case "/api/auth/me":
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"user_id":"usr_1","email":"asha@school.in","name":"Asha","role":"admin","is_active":true}`)
	case "/api/auth/register":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.registered = append(f.registered, body)
		_, _ = io.WriteString(w, `{"message":"Registration successful. Your account is pending admin approval.","user_id":"usr_7"}`)
	case "/api/auth/register-student":
		var p domain.StudentProfile
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.profiles = append(f.profiles, p)
		_, _ = io.WriteString(w, `{"message":"Student registered","student_id":"STU-1"}`)
	case "/api/students":
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"students":[{"student_id":"S1","name":"Anu","class_name":"7","section":"A","payment_status":"PAID"},{"student_id":"S2","name":"Bala","class_name":"8","section":"B"}]}`)
	case "/api/chat":
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setup(t *testing.T, input string) (*commandLine, *bytes.Buffer, *fakeSchool) {
	t.Helper()
	school := &fakeSchool{}
	srv := httptest.NewServer(school)
	t.Cleanup(srv.Close)

	store, err := filestore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	prev := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = prev })
	readPasswordFunc = func(int) ([]byte, error) { return []byte("secret1"), nil }

	out := &bytes.Buffer{}
	return &commandLine{
		client: backend.New(backend.Config{BaseURL: srv.URL}, zerolog.Nop()),
		store:  store,
		log:    zerolog.Nop(),
		in:     bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out, school
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _ := setup(t, "")

	tests := []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
		{name: "register with unknown role", args: []string{"register", "-email", "a@b.c", "-name", "A", "-role", "janitor"}, wantErr: errHelp},
		{name: "chat without message", args: []string{"chat"}, wantErr: errHelp},
		{name: "theme with unknown value", args: []string{"theme", "sepia"}, wantErr: errHelp},
		{name: "whoami signed out", args: []string{"whoami"}, wantErr: domain.ErrNotAuthenticated},
		{name: "dashboard signed out", args: []string{"dashboard"}, wantErr: domain.ErrNotAuthenticated},
	}
	for _, tt := range tests {
		args := append([]string{"portalctl"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); !errors.Is(err, tt.wantErr) {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_loginRejected(t *testing.T) {
	cli, _, _ := setup(t, "")
	readPasswordFunc = func(int) ([]byte, error) { return []byte("nope"), nil }

	err := cli.run([]string{"portalctl", "login", "-email", "asha@school.in"})
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid email or password" {
		t.Fatalf("cli.run() error = %v, want backend rejection", err)
	}
	if err := cli.run([]string{"portalctl", "whoami"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("rejected login must leave the session signed out, got %v", err)
	}
}

func Test_commandLine_loginSession(t *testing.T) {
	cli, out, _ := setup(t, "")

	if err := cli.run([]string{"portalctl", "login", "-email", "asha@school.in"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out.String(), "Signed in as Asha (ADMIN)") {
		t.Fatalf("unexpected login output %q", out.String())
	}

	out.Reset()
	if err := cli.run([]string{"portalctl", "whoami"}); err != nil {
		t.Fatalf("whoami after login: %v", err)
	}
	if !strings.Contains(out.String(), "asha@school.in") {
		t.Fatalf("unexpected whoami output %q", out.String())
	}

	out.Reset()
	if err := cli.run([]string{"portalctl", "students", "-class", "8"}); err != nil {
		t.Fatalf("students: %v", err)
	}
	if !strings.Contains(out.String(), "Bala") || strings.Contains(out.String(), "Anu") || !strings.Contains(out.String(), "1 of 2 students") {
		t.Fatalf("unexpected directory output %q", out.String())
	}

	if err := cli.run([]string{"portalctl", "logout"}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := cli.run([]string{"portalctl", "whoami"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected signed out after logout, got %v", err)
	}
}

func Test_commandLine_registerPending(t *testing.T) {
	cli, out, school := setup(t, "")

	err := cli.run([]string{"portalctl", "register", "-email", "kiran@school.in", "-name", "Kiran", "-role", "student", "-phone", "9000000000"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out.String(), "pending admin approval") {
		t.Fatalf("expected pending message, got %q", out.String())
	}
	if len(school.registered) != 1 {
		t.Fatalf("expected one registration, got %d", len(school.registered))
	}
	got := school.registered[0]
	if got["email"] != "kiran@school.in" || got["name"] != "Kiran" || got["role"] != "STUDENT" || got["password"] != "secret1" || got["phone"] != "9000000000" {
		t.Fatalf("unexpected registration body %v", got)
	}
	if err := cli.run([]string{"portalctl", "whoami"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("pending registration must not sign in, got %v", err)
	}
}

func Test_commandLine_theme(t *testing.T) {
	cli, out, _ := setup(t, "")

	for _, step := range []struct {
		args []string
		want string
	}{
		{nil, "light"},
		{[]string{"toggle"}, "dark"},
		{nil, "dark"},
		{[]string{"light"}, "light"},
	} {
		out.Reset()
		if err := cli.run(append([]string{"portalctl", "theme"}, step.args...)); err != nil {
			t.Fatalf("theme %v: %v", step.args, err)
		}
		if got := strings.TrimSpace(out.String()); got != step.want {
			t.Fatalf("theme %v: expected %s, got %s", step.args, step.want, got)
		}
	}
}

func Test_commandLine_chatFallsBack(t *testing.T) {
	cli, out, _ := setup(t, "")

	if err := cli.run([]string{"portalctl", "chat", "What", "are", "the", "fees?"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out.String(), "fee structure") {
		t.Fatalf("expected canned fee answer, got %q", out.String())
	}
}

func Test_commandLine_registerStudent(t *testing.T) {
	input := strings.Join([]string{
		// login details
		"Kiran", "kiran@school.in", "",
		// personal info
		"2012-04-01", "Male", "Hyderabad", "", "",
		// academic info, rejected then corrected
		"11", "B", "ADM-1", "", "",
		"7", "B", "ADM-1", "", "",
		// guardian details
		"Ravi", "", "", "9000000000", "ravi@mail.in", "",
		// confirmation
		"y",
	}, "\n") + "\n"
	cli, out, school := setup(t, input)

	if err := cli.run([]string{"portalctl", "register-student"}); err != nil {
		t.Fatalf("register-student: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Section (A-C): ") {
		t.Fatalf("section prompt should list A-C, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Student id: STU-1") {
		t.Fatalf("expected completion message, got %q", out.String())
	}
	if len(school.profiles) != 1 {
		t.Fatalf("expected one submitted profile, got %d", len(school.profiles))
	}
	p := school.profiles[0]
	if p.UserID != "usr_7" || p.ClassName != "7" || p.Section != "B" || p.AcademicYear != domain.DefaultAcademicYear {
		t.Fatalf("unexpected profile %+v", p)
	}
}
