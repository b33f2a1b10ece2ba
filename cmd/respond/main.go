// Command respond walks one respondent through a survey in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lshigami/fieldsurvey/config"
	"github.com/lshigami/fieldsurvey/internal/client"
	"github.com/lshigami/fieldsurvey/internal/crm"
	"github.com/lshigami/fieldsurvey/internal/logger"
	"github.com/lshigami/fieldsurvey/internal/model"
	"github.com/lshigami/fieldsurvey/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	pflag.String("api", "http://localhost:8080/api/v1", "survey API base URL")
	pflag.String("survey", "lnc-chair-2025", "survey id")
	pflag.String("respondent", "", "respondent (CRM contact) id")
	pflag.Bool("randomize", true, "shuffle answer options")
	pflag.Duration("timeout", 10*time.Second, "per-request timeout")
	pflag.Parse()

	viper.SetDefault("LOG_LEVEL", "warn")
	viper.SetDefault("CRM_TIMEOUT", "5s")
	viper.SetDefault("MULTI_SELECT_MAX", 3)
	viper.AutomaticEnv()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind flags")
	}
	logger.Setup(viper.GetString("LOG_LEVEL"), viper.GetString("LOG_FORMAT"))

	api := client.New(viper.GetString("api"), viper.GetDuration("timeout"))
	opts := []runner.Option{
		runner.WithProgress(api),
		runner.WithRandomize(viper.GetBool("randomize")),
		runner.WithMultiSelectMax(viper.GetInt("MULTI_SELECT_MAX")),
		runner.WithWriteTimeout(viper.GetDuration("timeout")),
		runner.WithErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "\n! answer not saved: %v\n", err)
		}),
	}
	crmClient := crm.NewClient(config.CRM{
		BaseURL: viper.GetString("CRM_BASE_URL"),
		APIKey:  viper.GetString("CRM_API_KEY"),
		Timeout: viper.GetDuration("CRM_TIMEOUT"),
	})
	if crmClient != nil {
		opts = append(opts, runner.WithContacts(crmClient))
	}

	r, err := runner.New(api, viper.GetString("respondent"), viper.GetString("survey"), opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Access denied: pass --respondent with your contact id.")
		os.Exit(2)
	}

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		if errors.Is(err, runner.ErrAlreadyCompleted) {
			fmt.Println("You have already completed this survey. Thank you!")
			return
		}
		fmt.Fprintf(os.Stderr, "This survey doesn't exist or is no longer available (%v)\n", err)
		os.Exit(1)
	}
	defer r.Close()

	s := &session{r: r, in: bufio.NewScanner(os.Stdin), out: os.Stdout}
	if err := s.run(ctx); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type session struct {
	r   *runner.Runner
	in  *bufio.Scanner
	out io.Writer
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *session) prompt(label string) (string, error) {
	s.printf("%s> ", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) run(ctx context.Context) error {
	s.printf("%s\n", s.r.Survey().Title)
	for s.r.State() == runner.StateActive {
		s.render()
		line, err := s.prompt("")
		if err != nil {
			return err
		}
		switch line {
		case "q":
			return s.r.Flush(ctx)
		case "b":
			s.report(s.r.Back())
		case "n", "":
			if s.r.IsLast() {
				s.submit(ctx)
				continue
			}
			s.report(s.r.Next())
		default:
			if err := s.answer(line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *session) submit(ctx context.Context) {
	err := s.r.Submit(ctx)
	switch {
	case err == nil:
		s.printf("\nThank you! Your response has been recorded successfully.\n")
	case errors.Is(err, runner.ErrAlreadyCompleted):
		s.printf("\nThis survey was already completed.\n")
	case errors.Is(err, runner.ErrUnsavedAnswers):
		s.printf("Some answers were not saved: %s. Press enter to retry.\n", strings.Join(s.r.Unsaved(), ", "))
	default:
		s.printf("Could not submit (%v). Press enter to retry.\n", err)
	}
}

func (s *session) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, runner.ErrAnswerRequired):
		s.printf("Please answer this question before continuing.\n")
	case errors.Is(err, runner.ErrSelectionLimit):
		s.printf("You have reached the selection limit.\n")
	default:
		s.printf("%v\n", err)
	}
}

func (s *session) render() {
	current, total, percent := s.r.Progress()
	s.printf("\nQuestion %d of %d (%.0f%% complete)\n", current, total, percent)

	q := s.r.Current().Base()
	s.printf("%s\n", q.Text)
	switch c := s.r.Current().(type) {
	case *runner.SingleChoice:
		for i, label := range c.Display {
			mark := " "
			if c.Selected == label {
				mark = "*"
			}
			s.printf(" [%s] %d. %s\n", mark, i+1, optionLabel(label, c.OtherText))
		}
	case *runner.MultiSelect:
		s.printf("Select up to %d options\n", c.Max)
		for i, label := range c.Display {
			mark := " "
			if c.IsSelected(label) {
				mark = "x"
			}
			s.printf(" [%s] %d. %s\n", mark, i+1, optionLabel(label, c.OtherText))
		}
	case *runner.ContactVerification:
		s.printf(" Name:  %s\n Email: %s\n Phone: %s %s\n", c.Contact.Name, c.Contact.Email, c.Contact.Phone, c.Contact.PhoneType)
		s.printf("Type \"y\" if correct or \"e\" to edit.\n")
	case *runner.FreeText:
		if c.Value != "" {
			s.printf(" (current: %s)\n", c.Value)
		}
		s.printf("Type your answer.\n")
	}
	if !q.Required {
		s.printf("(optional)\n")
	}
	next := "n=next"
	if s.r.IsLast() {
		next = "n=submit"
	}
	s.printf("%s b=back q=quit\n", next)
}

func optionLabel(label, otherText string) string {
	if label != model.OtherValue {
		return label
	}
	if otherText != "" {
		return "Other: " + otherText
	}
	return "Other (please specify)"
}

func (s *session) answer(line string) error {
	switch c := s.r.Current().(type) {
	case *runner.SingleChoice:
		label, ok := pick(c.Display, line)
		if !ok {
			s.printf("Enter an option number.\n")
			return nil
		}
		s.report(s.r.Select(label))
		if label == model.OtherValue {
			text, err := s.prompt("other")
			if err != nil {
				return err
			}
			s.report(s.r.SetOtherText(text))
		}
	case *runner.MultiSelect:
		label, ok := pick(c.Display, line)
		if !ok {
			s.printf("Enter an option number to toggle it.\n")
			return nil
		}
		s.report(s.r.Toggle(label))
		if label == model.OtherValue && c.IsSelected(model.OtherValue) {
			text, err := s.prompt("other")
			if err != nil {
				return err
			}
			s.report(s.r.SetOtherText(text))
		}
	case *runner.ContactVerification:
		return s.verify(c, line)
	case *runner.FreeText:
		s.report(s.r.SetText(line))
	}
	return nil
}

func (s *session) verify(c *runner.ContactVerification, line string) error {
	contact := c.Contact
	yes := true
	switch strings.ToLower(line) {
	case "y":
		contact.NameCorrect, contact.EmailCorrect, contact.PhoneCorrect = &yes, &yes, &yes
	case "e":
		no := false
		fields := []struct {
			label   string
			value   *string
			correct **bool
		}{
			{"name", &contact.Name, &contact.NameCorrect},
			{"email", &contact.Email, &contact.EmailCorrect},
			{"phone", &contact.Phone, &contact.PhoneCorrect},
		}
		for _, f := range fields {
			text, err := s.prompt(f.label + " [" + *f.value + "]")
			if err != nil {
				return err
			}
			if text == "" {
				*f.correct = &yes
				continue
			}
			*f.value = text
			*f.correct = &no
		}
		extra, err := s.prompt("additional phone (optional)")
		if err != nil {
			return err
		}
		contact.AdditionalPhone = extra
	default:
		s.printf("Type \"y\" or \"e\".\n")
		return nil
	}
	s.report(s.r.VerifyContact(contact))
	return nil
}

func pick(display []string, line string) (string, bool) {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(display) {
		return "", false
	}
	return display[n-1], true
}
