package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var requestCmd = &cobra.Command{
	Use:   "request <target>",
	Short: "Send an authenticated request",
	Long: `Send a request to the storefront API with the stored access token.

The target is either a path relative to api.base_url or an absolute URL on
an allowed host. A 401 answer triggers one token refresh and one resend.

Examples:
  storefront request /v1/catalog/products
  storefront request -i /v1/cart
  storefront request -X POST -H "Content-Type: application/json" -d '{"sku":"A-1"}' /v1/cart/items
  storefront request -X PUT -d @address.json /v1/account/address`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

// Flags for request.
var (
	requestMethod  string
	requestHeaders []string
	requestData    string
	requestInclude bool
	requestFail    bool
)

func init() {
	requestCmd.Flags().StringVarP(&requestMethod, "request", "X", http.MethodGet, "HTTP method")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, `Extra header ("Name: value"), repeatable`)
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "Request body, or @file to read it from a file (@- for stdin)")
	requestCmd.Flags().BoolVarP(&requestInclude, "include", "i", false, "Print the response status and headers")
	requestCmd.Flags().BoolVarP(&requestFail, "fail", "f", false, "Exit with an error on HTTP status 400 and above")
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	if requestGate == nil {
		return notConfigured("request gate")
	}

	header, err := parseHeaders(requestHeaders)
	if err != nil {
		return err
	}
	body, err := readRequestBody(cmd, requestData)
	if err != nil {
		return err
	}

	resp, err := requestGate.Do(cmd.Context(), args[0], domain.RequestOptions{
		Method: strings.ToUpper(requestMethod),
		Header: header,
		Body:   body,
	})
	if err != nil {
		return withHint(err)
	}
	defer resp.Body.Close()

	out := cmd.OutOrStdout()
	if requestInclude {
		fmt.Fprintf(out, "%s %s\n", resp.Proto, resp.Status)
		keys := make([]string, 0, len(resp.Header))
		for k := range resp.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range resp.Header[k] {
				fmt.Fprintf(out, "%s: %s\n", k, v)
			}
		}
		fmt.Fprintln(out)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if requestFail && resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized {
			return withHint(fmt.Errorf("%w: server returned %s", domain.ErrUnauthenticated, resp.Status))
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// parseHeaders turns "Name: value" pairs into a header map.
func parseHeaders(values []string) (http.Header, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := make(http.Header, len(values))
	for _, raw := range values {
		name, value, ok := strings.Cut(raw, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", raw)
		}
		header.Add(name, strings.TrimSpace(value))
	}
	return header, nil
}

func readRequestBody(cmd *cobra.Command, data string) ([]byte, error) {
	switch {
	case data == "":
		return nil, nil
	case data == "@-":
		body, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return body, nil
	case strings.HasPrefix(data, "@"):
		body, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return body, nil
	default:
		return []byte(data), nil
	}
}
