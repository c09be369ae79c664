package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"minimalapi/internal/api"
	"minimalapi/internal/cache"
	"minimalapi/internal/slogutil"
)

var routesFormat string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the HTTP routes",
	Long: `Print every route the server would mount with the current configuration,
including the bound parameters and the cache service each route resolves.

Examples:
  minimalapi routes
  minimalapi routes --format json`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().StringVar(&routesFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	result, err := loadConfig()
	if err != nil {
		return err
	}
	caches, err := cache.NewRegistry()
	if err != nil {
		return err
	}
	server, err := api.NewServer(result.Config, caches, slogutil.NewDiscardLogger())
	if err != nil {
		return err
	}
	return writeRoutes(cmd.OutOrStdout(), server.Routes(), routesFormat)
}

func writeRoutes(w io.Writer, routes []api.Route, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(routes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "human":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	for _, rt := range routes {
		var params []string
		for _, p := range rt.Params {
			params = append(params, p.In+":"+p.Name)
		}
		if rt.Body != "" {
			params = append(params, "body:"+rt.Body)
		}

		line := fmt.Sprintf("%-7s %-22s %s", rt.Method, rt.Path, rt.Summary)
		if len(params) > 0 {
			line += " [" + strings.Join(params, ", ") + "]"
		}
		if rt.Service != nil {
			service := *rt.Service
			if service == "" {
				service = "default"
			}
			line += " (cache: " + service + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
