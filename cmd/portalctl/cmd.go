package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/core/session"
	"github.com/sadhana-school/portal/internal/core/wizard"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	client *backend.Client
	store  ports.Storage
	log    zerolog.Logger
	in     *bufio.Reader
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                       - sign in, the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                                   - sign out and forget the credential")
	fmt.Fprintln(cli.out, "  whoami                                   - show the signed-in user")
	fmt.Fprintln(cli.out, "  register -email EMAIL -name NAME -role ROLE [-phone PHONE]")
	fmt.Fprintln(cli.out, "                                           - create an account, the password is prompted next")
	fmt.Fprintln(cli.out, "  register-student                         - walk through the student registration")
	fmt.Fprintln(cli.out, "  theme [light|dark|toggle]                - show or change the theme")
	fmt.Fprintln(cli.out, "  chat MESSAGE                             - ask the school assistant")
	fmt.Fprintln(cli.out, "  dashboard [-child STUDENT_ID]            - show the dashboard of your role")
	fmt.Fprintln(cli.out, "  students [-class C] [-section S] [-fee-status F] [-q TEXT]")
	fmt.Fprintln(cli.out, "                                           - browse the student directory")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginEmail := loginCmd.String("email", "", "Account email. The password will be prompted next.")

	registerCmd := flag.NewFlagSet("register", flag.ContinueOnError)
	registerEmail := registerCmd.String("email", "", "Account email.")
	registerName := registerCmd.String("name", "", "Full name.")
	registerRole := registerCmd.String("role", "", "One of ADMIN, FACULTY, STUDENT, PARENT.")
	registerPhone := registerCmd.String("phone", "", "Contact phone.")

	dashboardCmd := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	dashboardChild := dashboardCmd.String("child", "", "Parents only: the child to show.")

	studentsCmd := flag.NewFlagSet("students", flag.ContinueOnError)
	var filter service.DirectoryFilter
	studentsCmd.StringVar(&filter.ClassName, "class", "", "Class name.")
	studentsCmd.StringVar(&filter.Section, "section", "", "Section.")
	studentsCmd.StringVar(&filter.FeeStatus, "fee-status", "", "Fee status, e.g. PAID or PENDING.")
	studentsCmd.StringVar(&filter.Search, "q", "", "Name, student id or roll number.")

	for _, fs := range []*flag.FlagSet{loginCmd, registerCmd, dashboardCmd, studentsCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, pwd)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		role := domain.ParseRole(*registerRole)
		if *registerEmail == "" || *registerName == "" || !role.Valid() {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword("Enter password:")
		if err != nil {
			return err
		}
		return cli.register(ctx, *registerEmail, pwd, *registerName, role, *registerPhone)
	case "register-student":
		return cli.registerStudent(ctx)
	case "theme":
		return cli.theme(ctx, args[2:])
	case "chat":
		msg := strings.TrimSpace(strings.Join(args[2:], " "))
		if msg == "" {
			cli.printUsage()
			return errHelp
		}
		return cli.chat(ctx, msg)
	case "dashboard":
		if err := dashboardCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.dashboard(ctx, *dashboardChild)
	case "students":
		if err := studentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.students(ctx, filter)
	default:
		cli.printUsage()
		return errHelp
	}
}

// open restores the persisted session and binds the backend to it.
func (cli *commandLine) open(ctx context.Context) (*session.Store, *backend.API, error) {
	sess := session.New(cli.store, cli.client, cli.log)
	if err := sess.Bootstrap(ctx); err != nil {
		return nil, nil, err
	}
	return sess, cli.client.As(sess), nil
}

func (cli *commandLine) login(ctx context.Context, email, password string) error {
	sess, _, err := cli.open(ctx)
	if err != nil {
		return err
	}
	p, err := sess.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s)\n", p.DisplayName, p.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	sess, _, err := cli.open(ctx)
	if err != nil {
		return err
	}
	if err := sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	sess, _, err := cli.open(ctx)
	if err != nil {
		return err
	}
	p, err := sess.RequirePrincipal()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s>\nrole: %s\nstatus: %s\n", p.DisplayName, p.Email, p.Role, p.ApprovalState)
	return nil
}

func (cli *commandLine) register(ctx context.Context, email, password, name string, role domain.Role, phone string) error {
	sess, _, err := cli.open(ctx)
	if err != nil {
		return err
	}
	reg, err := sess.RegisterWith(ctx, email, password, name, role, phone)
	if err != nil {
		return err
	}
	if reg.Pending {
		fmt.Fprintln(cli.out, reg.Message)
		return nil
	}
	fmt.Fprintf(cli.out, "Registered and signed in as %s (%s)\n", reg.Principal.DisplayName, reg.Principal.Role)
	return nil
}

func (cli *commandLine) theme(ctx context.Context, args []string) error {
	theme, err := service.NewThemeService(ctx, cli.store)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Fprintln(cli.out, theme.Current())
		return nil
	}
	switch args[0] {
	case "toggle":
		if _, err := theme.Toggle(ctx); err != nil {
			return err
		}
	case string(domain.ThemeLight), string(domain.ThemeDark):
		if err := theme.Set(ctx, domain.Theme(args[0])); err != nil {
			return err
		}
	default:
		cli.printUsage()
		return errHelp
	}
	fmt.Fprintln(cli.out, theme.Current())
	return nil
}

func (cli *commandLine) chat(ctx context.Context, message string) error {
	_, api, err := cli.open(ctx)
	if err != nil {
		return err
	}
	reply, err := service.NewChatService(api, cli.log).Reply(ctx, message)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, reply.Response)
	return nil
}

func (cli *commandLine) dashboard(ctx context.Context, child string) error {
	sess, api, err := cli.open(ctx)
	if err != nil {
		return err
	}
	p, err := sess.RequirePrincipal()
	if err != nil {
		return err
	}

	var out any
	switch p.Role {
	case domain.RoleAdmin:
		out, err = service.NewAdminService(api, cli.log).Overview(ctx)
	case domain.RoleFaculty:
		out, err = service.NewFacultyService(api, cli.log).Overview(ctx)
	case domain.RoleStudent:
		out, err = service.NewStudentService(api, cli.log).Overview(ctx)
	case domain.RoleParent:
		out, err = service.NewParentService(api, cli.log).Overview(ctx, child)
	default:
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	return cli.printJSON(out)
}

func (cli *commandLine) students(ctx context.Context, filter service.DirectoryFilter) error {
	sess, api, err := cli.open(ctx)
	if err != nil {
		return err
	}
	p, err := sess.RequirePrincipal()
	if err != nil {
		return err
	}
	if !p.HasRole(domain.RoleAdmin, domain.RoleFaculty) {
		return domain.ErrForbidden
	}
	dir, err := service.NewAdminService(api, cli.log).Directory(ctx, filter)
	if err != nil {
		return err
	}
	for _, s := range dir.Students {
		fmt.Fprintf(cli.out, "%-12s %-24s %s-%s  %s\n", s.StudentID, s.Name, s.ClassName, s.Section, s.FeeStatus())
	}
	fmt.Fprintf(cli.out, "%d of %d students\n", len(dir.Students), dir.Total)
	return nil
}

// registerStudent runs the registration wizard interactively. A rejected
// step is shown and asked again.
func (cli *commandLine) registerStudent(ctx context.Context) error {
	sess, api, err := cli.open(ctx)
	if err != nil {
		return err
	}
	draft := &domain.RegistrationDraft{ID: uuid.NewString(), Step: int(wizard.LoginDetails)}
	w := wizard.New(draft, sess, api, nil, cli.log)

	for w.Step() != wizard.Confirmation {
		fmt.Fprintf(cli.out, "\n== %s ==\n", w.Step().Label())
		in, err := cli.promptStep(w.Step())
		if err != nil {
			return err
		}
		if err := w.Apply(in); err != nil {
			return err
		}
		if _, err := w.Next(ctx); err != nil {
			var se *wizard.StepError
			if errors.As(err, &se) {
				fmt.Fprintln(cli.out, se.Message)
				continue
			}
			return err
		}
	}

	fmt.Fprintf(cli.out, "\n== %s ==\n%s", wizard.Confirmation.Label(), w.Summary())
	ok, err := cli.prompt("Submit registration? [y/N]")
	if err != nil {
		return err
	}
	if !strings.EqualFold(ok, "y") {
		fmt.Fprintln(cli.out, "Registration not submitted")
		return nil
	}
	reg, err := w.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Registration complete. Student id: %s\n", reg.StudentID)
	return nil
}

func (cli *commandLine) promptStep(step wizard.Step) (wizard.Input, error) {
	var (
		in  wizard.Input
		err error
	)
	ask := func(label string, dst *string) {
		if err != nil {
			return
		}
		*dst, err = cli.prompt(label)
	}
	secret := func(label string, dst *string) {
		if err != nil {
			return
		}
		*dst, err = cli.readPassword(label)
	}

	switch step {
	case wizard.LoginDetails:
		var f domain.AuthFields
		ask("Full name", &f.Name)
		ask("Email", &f.Email)
		ask("Phone", &f.Phone)
		secret("Password:", &f.Password)
		secret("Confirm password:", &f.ConfirmPassword)
		in.Auth = &f
	case wizard.PersonalInfo:
		var f domain.PersonalFields
		ask("Date of birth (YYYY-MM-DD)", &f.DateOfBirth)
		ask("Gender", &f.Gender)
		ask("Address", &f.Address)
		ask("Blood group", &f.BloodGroup)
		ask("Aadhaar id", &f.AadhaarID)
		in.Personal = &f
	case wizard.AcademicInfo:
		var f domain.AcademicFields
		ask("Class (1-10)", &f.ClassName)
		ask("Section (A-C)", &f.Section)
		ask("Admission number", &f.AdmissionNumber)
		ask("Academic year", &f.AcademicYear)
		ask("Previous school", &f.PreviousSchool)
		in.Academic = &f
	case wizard.GuardianDetails:
		var f domain.GuardianFields
		ask("Father's name", &f.FatherName)
		ask("Mother's name", &f.MotherName)
		ask("Guardian's name", &f.GuardianName)
		ask("Parent phone", &f.Phone)
		ask("Parent email", &f.Email)
		ask("Occupation", &f.Occupation)
		in.Guardian = &f
	}
	return in, err
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprintf(cli.out, "%s: ", label)
	line, err := cli.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

func (cli *commandLine) readPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) printJSON(v any) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
