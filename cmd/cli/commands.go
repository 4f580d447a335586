package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/infrastructure/auth"
)

var errInconsistent = errors.New("ledger is inconsistent")

func ledgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			if err := client.getJSON("/api/v1/ledger/consistency", nil, &report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !report.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED: %d of %d entries violate posting rules\n", report.Violations, report.TotalEntries)
				fmt.Fprintf(out, "  self entries:        %d\n", report.SelfEntries)
				fmt.Fprintf(out, "  non-positive amount: %d\n", report.NonPositiveAmount)
				fmt.Fprintf(out, "  invalid legs:        %d\n", report.InvalidLegs)
				fmt.Fprintf(out, "  missing suggestion:  %d\n", report.MissingSuggestion)
				return errInconsistent
			}

			fmt.Fprintf(out, "Consistency check PASSED (%d entries)\n", report.TotalEntries)
			return nil
		},
	})

	return cmd
}

func balanceteCmd(client *apiClient) *cobra.Command {
	var from, to, account string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "balancete",
		Short: "Print the trial balance for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b dto.BalanceteResponse
			if err := client.getJSON("/api/v1/reports/balancete", rangeQuery(from, to, account), &b); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), b)
			}
			return printBalancete(cmd.OutOrStdout(), b)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&account, "account", "", "Only entries touching this account id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")

	return cmd
}

func exportCmd(client *apiClient) *cobra.Command {
	var from, to, account, format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export journal entries as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format %q, use csv or json", format)
			}

			q := rangeQuery(from, to, account)
			q.Set("format", format)

			data, err := client.do(http.MethodGet, "/api/v1/entries/export", q, nil)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&account, "account", "", "Only entries touching this account id")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func chartCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart of accounts operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Create or update chart accounts from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readChartFile(args[0])
			if err != nil {
				return err
			}

			data, err := client.do(http.MethodPut, "/api/v1/accounts", nil, req)
			if err != nil {
				return err
			}

			var resp dto.ListAccountsResponse
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", resp.Total)
			return nil
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, id, name, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Operator token utilities",
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed operator token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a signing secret is required (--secret or $JWT_SECRET)")
			}
			if id == "" {
				return errors.New("--id is required")
			}
			r := auth.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(auth.Operator{ID: id, Name: name, Role: r})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	issue.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to $JWT_SECRET)")
	issue.Flags().StringVar(&id, "id", "", "Operator id recorded as entry author")
	issue.Flags().StringVar(&name, "name", "", "Operator display name")
	issue.Flags().StringVar(&role, "role", string(auth.RoleOperator), "Role: viewer, operator or admin")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	cmd.AddCommand(issue)
	return cmd
}

// readChartFile loads a chart YAML file. The file is either a list of
// accounts or a mapping with an "accounts" key.
func readChartFile(path string) (*dto.ImportAccountsRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var req dto.ImportAccountsRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		var list []dto.AccountRequest
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		req.Accounts = list
	}

	if len(req.Accounts) == 0 {
		return nil, fmt.Errorf("%s: no accounts found", path)
	}
	return &req, nil
}

func printBalancete(w io.Writer, b dto.BalanceteResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tDESCRIPTION\tBALANCE\t")
	for _, row := range b.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Code, truncate(row.Description, 40), row.Balance)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\t\n", b.Total)
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
