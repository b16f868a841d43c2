package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
)

// bcryptGenerate is swapped in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "friendly-loan",
		Short: "Friendly loan tracker CLI",
		Long:  `A command line interface for the friendly loan tracking API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the loan tracker API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		calculateCmd(),
		loansCmd(),
		progressCmd(),
		recalculateCmd(),
		hashPasswordCmd(),
	)

	return rootCmd
}

func calculateCmd() *cobra.Command {
	var (
		amount string
		rate   float64
		months int
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Preview an installment plan without saving anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"amount":        amount,
				"interest_rate": rate,
				"term_months":   months,
			}

			body, err := apiPost("/api/v1/calculate", payload)
			if err != nil {
				return err
			}

			var schedule struct {
				MonthlyPayment int64 `json:"monthly_payment"`
				TotalPayment   int64 `json:"total_payment"`
				TotalInterest  int64 `json:"total_interest"`
			}
			if err := json.Unmarshal(body, &schedule); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("Monthly payment: %d\n", schedule.MonthlyPayment)
			fmt.Printf("Total payment:   %d\n", schedule.TotalPayment)
			fmt.Printf("Overpayment:     %d\n", schedule.TotalInterest)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Principal amount (free-form, e.g. \"120 000\")")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annual interest rate in percent")
	cmd.Flags().IntVar(&months, "months", 0, "Term in months")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("months")

	return cmd
}

func loansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List loans with repayment progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/loans/")
			if err != nil {
				return err
			}

			var loans []struct {
				ID               string `json:"id"`
				Amount           int64  `json:"amount"`
				MonthlyPayment   int64  `json:"monthly_payment"`
				CounterpartyName string `json:"counterparty_name"`
				Progress         struct {
					ProgressPercent float64 `json:"progress_percent"`
					RemainingAmount int64   `json:"remaining_amount"`
				} `json:"progress"`
			}
			if err := json.Unmarshal(body, &loans); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Printf("%-28s %-20s %12s %12s %8s\n", "ID", "BORROWER", "AMOUNT", "REMAINING", "PAID")
			for _, loan := range loans {
				fmt.Printf("%-28s %-20s %12d %12d %7.1f%%\n",
					truncate(loan.ID, 28),
					truncate(loan.CounterpartyName, 20),
					loan.Amount,
					loan.Progress.RemainingAmount,
					loan.Progress.ProgressPercent,
				)
			}
			return nil
		},
	}
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <loan-id>",
		Short: "Show repayment progress for a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/loans/" + args[0] + "/progress")
			if err != nil {
				return err
			}

			var progress map[string]any
			if err := json.Unmarshal(body, &progress); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printJSON(progress)
			return nil
		},
	}
}

func recalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate <loan-id>",
		Short: "Recalculate the forward installment plan for a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/loans/" + args[0] + "/recalculation")
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printJSON(result)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for seeding accounts directly in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hashed))
			return nil
		},
	}
}

func apiGet(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

func apiPost(path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
