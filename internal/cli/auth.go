package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/authform"
	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthSocialCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				username = promptInput(in, cmd.OutOrStdout(), "Username: ")
			}
			if password == "" {
				password = promptPassword(in, cmd.OutOrStdout(), "Password: ")
			}

			creds := authform.Credentials{Username: username, Password: password}
			if err := authform.ValidateCredentials(authform.SignIn, creds); err != nil {
				return err
			}

			router := navigation.NewRouter(nil)
			form := authform.NewController(apiClient, router, nil, appLogger)
			outcome := form.SubmitSignIn(cmd.Context(), creds)

			return reportAuth(cmd.OutOrStdout(), form, router, outcome)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			if email == "" {
				email = promptInput(in, out, "Email: ")
			}
			if username == "" {
				username = promptInput(in, out, "Username: ")
			}
			if password == "" {
				password = promptPassword(in, out, "Password: ")
				confirm := promptPassword(in, out, "Confirm password: ")
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			creds := authform.Credentials{Email: email, Username: username, Password: password}
			if err := authform.ValidateCredentials(authform.SignUp, creds); err != nil {
				return err
			}

			router := navigation.NewRouter(nil)
			form := authform.NewController(apiClient, router, nil, appLogger)
			outcome := form.SubmitSignUp(cmd.Context(), creds)

			return reportAuth(out, form, router, outcome)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func newAuthSocialCmd() *cobra.Command {
	var noBrowser bool

	cmd := &cobra.Command{
		Use:   "social <provider>",
		Short: "Continue with a social provider in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opener := navigation.BrowserOpener()
			if noBrowser {
				opener = nil
			}

			router := navigation.NewRouter(opener)
			form := authform.NewController(apiClient, router, nil, appLogger)
			url := form.StartSocialLogin(args[0])

			if fb := form.View().Feedback; fb != nil {
				return feedbackError(fb)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Continue in your browser: %s\n", url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the redirect URL without opening it")

	return cmd
}

// reportAuth prints the form's result. A rejected submission becomes the
// command error carrying the form's message.
func reportAuth(out io.Writer, form *authform.Controller, router *navigation.Router, outcome authform.Outcome) error {
	view := form.View()

	switch outcome {
	case authform.OutcomeNavigated:
		if view.Feedback != nil {
			fmt.Fprintln(out, view.Feedback.Text)
		}
		name := router.Current().State.DisplayName()
		viper.Set("auth.username", name)
		if _, err := writeConfig(); err != nil {
			appLogger.WarnWithErr(err, "Failed to remember signed-in user")
		}
		fmt.Fprintf(out, "Logged in as %s\n", name)
		return nil
	case authform.OutcomeRegistered:
		fmt.Fprintln(out, view.Feedback.Text)
		fmt.Fprintln(out, "Sign in with 'missioncontrol auth login' to continue.")
		return nil
	default:
		if view.Feedback != nil {
			return feedbackError(view.Feedback)
		}
		return errors.New("request failed")
	}
}

// feedbackError drops the form's "Error: " marker; main adds its own.
func feedbackError(fb *authform.Feedback) error {
	return errors.New(strings.TrimPrefix(fb.Text, "Error: "))
}

func promptInput(in *bufio.Reader, out io.Writer, prompt string) string {
	answer, _ := readAnswer(in, out, prompt)
	return answer
}

// readAnswer returns io.EOF once input is exhausted
func readAnswer(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	input, err := in.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads without echo when stdin is a terminal
func promptPassword(in *bufio.Reader, out io.Writer, prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptInput(in, out, prompt)
	}

	fmt.Fprint(out, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return ""
	}
	return string(password)
}
