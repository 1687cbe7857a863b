package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnemet/memgrid"
	"github.com/gnemet/memgrid/database/recordsource"
	"github.com/gnemet/memgrid/internal/config"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Dataset    string
	File       string
	ConfigPath string
	Catalog    string
	Search     string
	Sort       []string
	Filters    []string
	Page       int
	PageSize   int
	GroupBy    string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Render one page of a record set",
		Long: `Load records from a built-in dataset, a JSON/YAML file or the source in a
config file, then apply filters, search, sorts and paging in that order.
Repeating --sort with the same key toggles the direction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "built-in dataset (revenue|engagement|users)")
	cmd.Flags().StringVar(&opts.File, "file", "", "JSON or YAML file with an array of records")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file describing the record source")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog with columns and defaults")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search")
	cmd.Flags().StringArrayVar(&opts.Sort, "sort", nil, "sort key, repeat to toggle (key or key:asc|desc)")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "facet filter key=value")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "1-based page")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "rows per page")
	cmd.Flags().StringVar(&opts.GroupBy, "group-by", "", "summarize the filtered set by this column")

	return cmd
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	src, err := opts.source()
	if err != nil {
		return err
	}
	defer src.Close()

	records, err := src.Source.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	var (
		e   *memgrid.Engine
		cat *memgrid.Catalog
	)
	if opts.Catalog != "" {
		cat, err = memgrid.LoadCatalog(opts.Catalog)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		e, err = memgrid.NewFromCatalog(records, cat, "en")
		if err != nil {
			return err
		}
	} else {
		cols := src.Columns
		if cols == nil {
			cols = inferColumns(records)
		}
		e, err = memgrid.New(records, cols)
		if err != nil {
			return err
		}
	}

	params := memgrid.RequestParams{
		Search:   opts.Search,
		Sort:     opts.Sort,
		Filters:  map[string]string{},
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}
	for _, f := range opts.Filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q: want key=value", f)
		}
		if cat != nil {
			key = cat.FilterColumn(key)
		}
		params.Filters[key] = value
	}
	params.Apply(e)

	out := cmd.OutOrStdout()
	if opts.GroupBy != "" {
		if _, ok := e.Column(opts.GroupBy); !ok {
			return fmt.Errorf("unknown column %q", opts.GroupBy)
		}
		s := e.Summary(opts.GroupBy, nil)
		if opts.Format == "json" {
			return writeJSON(out, s)
		}
		return writeSummary(out, s)
	}

	if opts.Format == "json" {
		return writeJSON(out, e.View())
	}
	return writeTable(out, e.View())
}

func (o *QueryOptions) source() (*gridSource, error) {
	now := time.Now()
	switch {
	case o.File != "":
		return &gridSource{Source: recordsource.FileSource{Path: o.File}, Close: noClose}, nil
	case o.ConfigPath != "":
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return sourceFromConfig(cfg, now)
	case o.Dataset != "":
		return mockSource(o.Dataset, now)
	default:
		return nil, fmt.Errorf("one of --dataset, --file or --config is required")
	}
}
