// Command adminctl is the CivicVoice back-office CLI. It drives the same API
// the web back office uses, through the pkg/client SDK, and keeps its session
// in the user config dir.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/civicvoice/platform/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("CIVICVOICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		fatal(err)
	}
	storage, err := client.NewFileStorage(filepath.Join(configDir, "civicvoice"))
	if err != nil {
		fatal(err)
	}

	c := client.New(baseURL)
	session := client.NewSession(c, storage)
	session.Initialize()
	api := client.NewAPI(c)

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, session)
	case "logout":
		session.Logout()
		fmt.Println("logged out")
	case "whoami":
		err = runWhoami(session)
	case "summary":
		err = runSummary(ctx, api)
	default:
		desc, ok := descriptors(api)[os.Args[1]]
		if !ok {
			usage()
			os.Exit(2)
		}
		err = runResource(ctx, desc, os.Args[2:])
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: adminctl <command> [arguments]

commands:
  login                         authenticate against the API
  logout                        discard the stored session
  whoami                        show the current operator
  summary                       cross-resource status counts
  <resource> list [flags]       list records (contacts, volunteers, members, events, subscribers)
  <resource> get <id>           show one record
  <resource> set-status <id> <status> [-notes ...]
  <resource> stats              status counts
  <resource> delete <id>        delete a record`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "adminctl:", err)
	os.Exit(1)
}

func runLogin(ctx context.Context, session *client.Session) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	if err := session.Login(ctx, strings.TrimSpace(email), string(password)); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", session.Principal().Name, session.Principal().Role)
	return nil
}

func runWhoami(session *client.Session) error {
	if !session.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}
	p := session.Principal()
	fmt.Printf("%s <%s> role=%s\n", p.Name, p.Email, p.Role)
	return nil
}

func runSummary(ctx context.Context, api *client.API) error {
	report, err := api.Reports.Summary(ctx)
	if err != nil {
		return err
	}
	sections := []struct {
		name   string
		counts *client.StatusCounts
	}{
		{"contacts", report.Contacts},
		{"volunteers", report.Volunteers},
		{"members", report.Members},
		{"events", report.Events},
		{"subscribers", report.Subscribers},
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range sections {
		if s.counts == nil {
			continue
		}
		fmt.Fprintf(w, "%s\ttotal=%d\t%s\n", s.name, s.counts.Total, formatByStatus(s.counts.ByStatus))
	}
	return w.Flush()
}

func formatByStatus(m map[string]int64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// runResource dispatches the shared per-resource subcommands driven by the
// descriptor.
func runResource(ctx context.Context, desc resourceDescriptor, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s: missing subcommand", desc.name)
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet(desc.name+" list", flag.ExitOnError)
		var p client.ListParams
		fs.IntVar(&p.Page, "page", 0, "page number")
		fs.IntVar(&p.Limit, "limit", 0, "page size")
		fs.StringVar(&p.Status, "status", "", "status filter ("+strings.Join(desc.statuses, ", ")+")")
		fs.StringVar(&p.Search, "search", "", "free-text search")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		rows, page, err := desc.list(ctx, p)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(desc.headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("page %d/%d (%d total)\n", page.Page, page.Pages, page.Total)
		return nil

	case "get":
		if len(args) < 2 {
			return fmt.Errorf("%s get: missing id", desc.name)
		}
		record, err := desc.get(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(record)

	case "set-status":
		if desc.setStatus == nil {
			return fmt.Errorf("%s: status cannot be set from the CLI", desc.name)
		}
		if len(args) < 3 {
			return fmt.Errorf("%s set-status: need <id> <status>", desc.name)
		}
		fs := flag.NewFlagSet(desc.name+" set-status", flag.ExitOnError)
		notes := fs.String("notes", "", "internal notes")
		if err := fs.Parse(args[3:]); err != nil {
			return err
		}
		record, err := desc.setStatus(ctx, args[1], args[2], *notes)
		if err != nil {
			return err
		}
		return printJSON(record)

	case "stats":
		counts, err := desc.stats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s total=%d %s\n", desc.name, counts.Total, formatByStatus(counts.ByStatus))
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("%s delete: missing id", desc.name)
		}
		if err := desc.delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("deleted", args[1])
		return nil
	}

	return fmt.Errorf("%s: unknown subcommand %q", desc.name, args[0])
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
