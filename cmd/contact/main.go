package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/notify"
	"github.com/portfolio/backend/internal/validation"
	"github.com/portfolio/backend/internal/contactclient"
	"github.com/portfolio/backend/pkg/emailjs"
)

type options struct {
	apiURL  string
	list    bool
	token   string
	notify  bool
	timeout time.Duration
	name    string
	email   string
	subject string
	message string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.apiURL, "url", envOr("CONTACT_API_URL", "http://localhost:8080"), "API base URL")
	fs.BoolVar(&o.list, "list", false, "list stored messages instead of submitting")
	fs.StringVar(&o.token, "token", os.Getenv("ADMIN_TOKEN"), "admin token for -list")
	fs.BoolVar(&o.notify, "notify", false, "send the EmailJS notification from this client")
	fs.DurationVar(&o.timeout, "timeout", contactclient.DefaultTimeout, "request timeout")
	fs.StringVar(&o.name, "name", "", "sender name")
	fs.StringVar(&o.email, "email", "", "sender email")
	fs.StringVar(&o.subject, "subject", "", "message subject")
	fs.StringVar(&o.message, "message", "", "message body")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	// stdout carries the JSON result, so logs go to stderr.
	slog.SetDefault(logging.New(os.Stderr, os.Getenv("LOG_LEVEL")))

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(context.Background(), opts, os.Stdout, os.Stderr))
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	client := contactclient.New(opts.apiURL)
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	if opts.list {
		msgs, err := client.ListMessages(ctx, opts.token)
		if err != nil {
			fmt.Fprintln(stderr, "list failed:", err)
			return 1
		}
		return printJSON(stdout, stderr, msgs)
	}

	var ctrlOpts []contactclient.ControllerOption
	ctrlOpts = append(ctrlOpts, contactclient.WithResetDelay(0))
	if opts.notify {
		if n := clientNotifier(ctx, client); n != nil {
			ctrlOpts = append(ctrlOpts, contactclient.WithNotifier(n))
		}
	}

	ctrl := contactclient.NewController(client, ctrlOpts...)
	ctrl.SetField(validation.FieldName, opts.name)
	ctrl.SetField(validation.FieldEmail, opts.email)
	ctrl.SetField(validation.FieldSubject, opts.subject)
	ctrl.SetField(validation.FieldMessage, opts.message)

	if errs := ctrl.FieldErrors(); len(errs) > 0 {
		for _, fe := range errs {
			fmt.Fprintf(stderr, "%s: %s\n", fe.Field, fe.Reason)
		}
		return 1
	}

	res := ctrl.Submit(ctx)
	ctrl.Wait()
	if res.State == contactclient.Failed {
		fmt.Fprintln(stderr, res.ErrorMessage)
		return 1
	}
	return printJSON(stdout, stderr, res.Message)
}

// clientNotifier builds an EmailJS notifier from the server's public config,
// or returns nil when the server has none.
func clientNotifier(ctx context.Context, client *contactclient.Client) notify.Notifier {
	cfg, err := client.EmailJSConfig(ctx)
	if err != nil {
		slog.Warn("could not fetch emailjs config, skipping notification", "error", err)
		return nil
	}
	if !cfg.Configured() {
		slog.Warn("server has no emailjs config, skipping notification")
		return nil
	}
	return notify.NewEmailJSNotifier(emailjs.NewClient(emailjs.Config{
		PublicKey:  cfg.PublicKey,
		ServiceID:  cfg.ServiceID,
		TemplateID: cfg.TemplateID,
		BaseURL:    os.Getenv("EMAILJS_BASE_URL"),
	}))
}

func printJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(stderr, "encode output:", err)
		return 1
	}
	return 0
}
