// Command catalog-dump fetches the upstream product catalog and prints it as
// a table. Handy for checking what the storefront will serve without running
// the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/weblarek/storefront/internal/larek"
	"github.com/weblarek/storefront/internal/view"
)

func main() {
	_ = godotenv.Load()

	var (
		apiURL  = flag.String("api", os.Getenv("LAREK_API_BASE_URL"), "upstream API root")
		cdnURL  = flag.String("cdn", os.Getenv("LAREK_CDN_URL"), "CDN base for image paths")
		timeout = flag.Duration("timeout", 10*time.Second, "request timeout")
	)
	flag.Parse()

	if *apiURL == "" {
		slog.Error("upstream API root is required: pass -api or set LAREK_API_BASE_URL")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := larek.NewClient(larek.Config{BaseURL: *apiURL, CDNURL: *cdnURL})
	list, err := client.FetchProducts(ctx)
	if err != nil {
		slog.Error("catalog fetch failed", "err", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE")
	for _, p := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, view.FormatPrice(p))
	}
	if err := tw.Flush(); err != nil {
		slog.Error("write table", "err", err)
		os.Exit(1)
	}

	slog.Info("catalog fetched", "items", len(list.Items), "total", list.Total)
}
