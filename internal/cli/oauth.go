package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/missioncontrol/internal/domain/oauthflow"
	"github.com/pratik-mahalle/missioncontrol/internal/navigation"
)

func newOAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Mock OAuth consent screen",
	}

	cmd.AddCommand(newOAuthMockCmd())

	return cmd
}

func newOAuthMockCmd() *cobra.Command {
	var (
		account int
		email   string
	)

	cmd := &cobra.Command{
		Use:   "mock <provider>",
		Short: "Walk through the mock consent screen for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			provider := args[0]

			router := navigation.NewRouter(nil)
			flow := oauthflow.NewFlow(provider, router, nil, appLogger)
			if err := flow.Start(ctx); err != nil {
				return err
			}
			defer flow.Close()

			fmt.Fprintf(out, "Connecting to %s...\n", provider)
			if err := waitForPhase(ctx, flow, oauthflow.PhaseConsent); err != nil {
				return err
			}

			consent := flow.State().(oauthflow.Consent)
			fmt.Fprintf(out, "Sign in with %s\nChoose an account to continue to Modern Auth\n", provider)

			var err error
			switch {
			case email != "":
				err = submitCustomEmail(flow, email)
			case account > 0:
				err = flow.ChooseAccount(account - 1)
			default:
				err = chooseInteractively(bufio.NewReader(cmd.InOrStdin()), out, flow, consent)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Redirecting to Mission Control...")
			select {
			case <-flow.Done():
			case <-ctx.Done():
				return ctx.Err()
			}

			state := router.Current().State
			if getOutputFormat() != "table" {
				return printOutput(out, state)
			}
			fmt.Fprintf(out, "Signed in as %s via %s\n", state.UserEmail, state.Provider)
			return nil
		},
	}

	cmd.Flags().IntVar(&account, "account", 0, "pick the Nth listed account (1-based)")
	cmd.Flags().StringVar(&email, "email", "", "use another account with this email")

	return cmd
}

func chooseInteractively(in *bufio.Reader, out io.Writer, flow *oauthflow.Flow, consent oauthflow.Consent) error {
	for i, a := range consent.Accounts {
		fmt.Fprintf(out, "  %d) [%s] %s <%s>\n", i+1, a.Initial(), a.DisplayName, a.Email)
	}
	other := len(consent.Accounts) + 1
	fmt.Fprintf(out, "  %d) Use another account\n", other)

	for {
		answer, err := readAnswer(in, out, "Account: ")
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(answer)
		switch {
		case err == nil && choice == other:
			for {
				email, err := readAnswer(in, out, fmt.Sprintf("Enter your %s account email: ", flow.Provider()))
				if err != nil {
					return err
				}
				if err := submitCustomEmail(flow, email); err == nil {
					return nil
				}
				fmt.Fprintln(out, "Email is required.")
			}
		case err == nil && choice >= 1 && choice < other:
			return flow.ChooseAccount(choice - 1)
		}
		fmt.Fprintf(out, "Pick a number between 1 and %d.\n", other)
	}
}

// submitCustomEmail leaves the flow in the custom email form when the email is rejected
func submitCustomEmail(flow *oauthflow.Flow, email string) error {
	if flow.State().Phase() != oauthflow.PhaseCustomInput {
		if err := flow.UseAnotherAccount(); err != nil {
			return err
		}
	}
	if err := flow.EditEmail(email); err != nil {
		return err
	}
	return flow.SubmitEmail()
}

func waitForPhase(ctx context.Context, flow *oauthflow.Flow, want oauthflow.Phase) error {
	for flow.State().Phase() != want {
		select {
		case <-flow.Changes():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
