package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"admin-console/internal/api"
	"admin-console/internal/config"
	"admin-console/internal/engine"
	"admin-console/internal/resource"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	client := api.NewClient(cfg.Client.BaseURL,
		api.WithTokenSource(api.StaticToken(cfg.Client.Token)),
		api.WithDoer(&http.Client{Timeout: cfg.Client.Timeout()}),
	)
	session := engine.NewSession(client, resource.Catalogue(), resource.Relations())
	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "resources":
		cmdErr = cmdResources()
	case "list":
		cmdErr = cmdList(ctx, session, os.Args[2:])
	case "get":
		cmdErr = cmdGet(ctx, session, os.Args[2:])
	case "create":
		cmdErr = cmdWrite(ctx, session, engine.ModeCreate, os.Args[2:])
	case "update":
		cmdErr = cmdWrite(ctx, session, engine.ModeEdit, os.Args[2:])
	case "delete":
		cmdErr = cmdDelete(ctx, session, os.Args[2:])
	case "login":
		cmdErr = cmdLogin(cfg.Client.BaseURL, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		log.Fatalf("%v", cmdErr)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  admin resources
  admin list <resource> [-page N] [-page-size N] [-search S] [-column C -value V]
  admin get <resource> <pk...>
  admin create <resource> field=value ...
  admin update <resource> <pk...> -- field=value ...
  admin delete <resource> <pk...>
  admin login <email> <password>`)
}

func cmdResources() error {
	for _, d := range resource.Catalogue().All() {
		fmt.Printf("%-14s %-16s pk=%s\n", d.Key, "/"+d.Path, strings.Join(d.PrimaryKeys, "+"))
	}
	return nil
}

func cmdList(ctx context.Context, session *engine.Session, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", engine.DefaultPageSize, "rows per page")
	search := fs.String("search", "", "free-text search over visible columns")
	column := fs.String("column", "", "column for equality filter")
	value := fs.String("value", "", "value for equality filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("list: missing resource")
	}

	if err := session.SwitchResource(fs.Arg(0)); err != nil {
		return err
	}
	list := session.List()
	if err := list.SetPageSize(*pageSize); err != nil {
		return err
	}
	list.SetPage(*page)
	list.SetFilter(engine.Filter{Search: *search, Column: *column, Value: *value})

	if err := list.Load(ctx); err != nil {
		return err
	}

	desc := session.Resource()
	fmt.Println(strings.Join(desc.Columns, "\t"))
	for _, row := range list.Rows() {
		cells := make([]string, len(desc.Columns))
		for i, col := range desc.Columns {
			cells[i] = engine.Stringify(row[col])
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	fmt.Printf("page %d/%d, %d total\n", list.Page(), list.TotalPages(), list.Total())
	return nil
}

func cmdGet(ctx context.Context, session *engine.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("get: need resource and primary key(s)")
	}
	if err := session.SwitchResource(args[0]); err != nil {
		return err
	}
	detail, err := session.Detail()
	if err != nil {
		return err
	}
	row, err := detail.Load(ctx, args[1:])
	if err != nil {
		return err
	}
	for _, field := range detail.Fields(row) {
		fmt.Printf("%-14s %s\n", field.Name, field.Rendered)
	}
	return nil
}

// cmdWrite drives the record editor for create and update. Update takes
// primary key values before a "--" separator, field=value pairs after.
// "skills=" and "categories=" take a comma-separated ID list that replaces
// the desired set, so omitted IDs are deselected on update.
func cmdWrite(ctx context.Context, session *engine.Session, mode engine.Mode, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing resource")
	}
	if err := session.SwitchResource(args[0]); err != nil {
		return err
	}
	args = args[1:]

	var row api.Row
	if mode == engine.ModeEdit {
		var pks []string
		for len(args) > 0 && args[0] != "--" {
			pks = append(pks, args[0])
			args = args[1:]
		}
		if len(args) > 0 {
			args = args[1:] // drop "--"
		}
		detail, err := session.Detail()
		if err != nil {
			return err
		}
		row, err = detail.Load(ctx, pks)
		if err != nil {
			return err
		}
	}

	editor, err := session.OpenEditor(ctx, mode, row)
	if err != nil {
		log.Printf("WARN: relation options incomplete: %v", err)
	}
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", arg)
		}
		switch field {
		case "skills", "categories":
			for id := range editor.JoinState(field) {
				editor.ToggleJoin(field, id, false)
			}
			for _, id := range strings.Split(value, ",") {
				if id = strings.TrimSpace(id); id != "" {
					editor.ToggleJoin(field, id, true)
				}
			}
		default:
			editor.Set(field, value)
		}
	}

	saved, reports, err := editor.Submit(ctx)
	for _, report := range reports {
		fmt.Printf("join sync: %s\n", report)
	}
	if err != nil {
		return err
	}
	if saved != nil {
		out, _ := json.MarshalIndent(saved, "", "  ")
		fmt.Println(string(out))
	}
	return nil
}

func cmdDelete(ctx context.Context, session *engine.Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("delete: need resource and primary key(s)")
	}
	if err := session.SwitchResource(args[0]); err != nil {
		return err
	}
	detail, err := session.Detail()
	if err != nil {
		return err
	}
	if err := detail.Delete(ctx, args[1:]); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

// cmdLogin talks to the auth collaborator next to the API root and prints
// the access token for pasting into config.
func cmdLogin(baseURL string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("login: need email and password")
	}
	root := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/api")

	body, _ := json.Marshal(map[string]string{"email": args[0], "password": args[1]})
	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Post(root+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("login: decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("login failed: %s", env.Message)
	}
	fmt.Println(env.Data.AccessToken)
	return nil
}
