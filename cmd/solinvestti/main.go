package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fernandisraphael-art/solinvestti-sub000/internal/backend"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/config"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/connectors"
	gmailconnector "github.com/fernandisraphael-art/solinvestti-sub000/internal/connectors/gmail"
	imapconnector "github.com/fernandisraphael-art/solinvestti-sub000/internal/connectors/imap"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/listener"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/pipeline"
	"github.com/fernandisraphael-art/solinvestti-sub000/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "import:file":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input file path")
		inType := fs.String("type", "xlsx", "xlsx|csv|html")
		output := fs.String("output", "", "optional report xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		processor := pipeline.NewProcessingService(db, cfg)
		res, err := processor.ProcessFile(*input, *inType)
		must(err)
		if res.Imported == 0 {
			must(fmt.Errorf("no valid rows found in %s", *input))
		}
		fmt.Printf("import done importId=%d rows=%d\n", res.ImportID, res.Imported)

		if strings.TrimSpace(*output) != "" {
			rows, err := db.GetExportRows(res.ImportID)
			must(err)
			must(pipeline.ExportGeneratorsToXLSX(rows, *output))
			fmt.Printf("report written to %s\n", *output)
		}
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			if res.Skipped {
				fmt.Printf("email id=%d skipped: not a plant sheet\n", res.EmailID)
				return
			}
			if res.Imported == 0 {
				fmt.Printf("email id=%d: no valid rows found\n", res.EmailID)
				return
			}
			fmt.Printf("processed email id=%d importId=%d rows=%d\n", res.EmailID, res.ImportID, res.Imported)
			return
		}
		processedEmails, importedRows, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d rows=%d\n", processedEmails, importedRows)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		importID := fs.Int64("importId", 0, "internal import id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *importID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--importId and --out are required"))
		}
		rows, err := db.GetExportRows(*importID)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no export rows for importId=%d", *importID))
		}
		must(pipeline.ExportGeneratorsToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "backend:push":
		push := backend.NewPushService(db, cfg)
		count, err := push.PushUnsynced(context.Background())
		must(err)
		fmt.Printf("backend push done generators=%d\n", count)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: solinvestti <command>")
	fmt.Println("commands:")
	fmt.Println("  import:file --input=usinas.xlsx --type=xlsx|csv|html [--output=report.xlsx]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  export:xlsx --importId=1 --out=./out/report.xlsx")
	fmt.Println("  backend:push")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
