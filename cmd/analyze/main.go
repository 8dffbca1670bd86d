// Command analyze loads a seed file into an in-memory store and prints the
// sequence statistics for its active carts.
//
//	analyze -seed carts.json
//	analyze -seed carts.json -product <id> -limit 3
//	analyze -seed carts.json -json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/yishak-cs/cartrec/internal/database"
	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/recommend"
	"github.com/yishak-cs/cartrec/internal/report"
	"github.com/yishak-cs/cartrec/internal/store"
)

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "analyze:", err)
		}
		os.Exit(2)
	}
}

type options struct {
	seed         string
	product      string
	limit        int
	minFrequency int
	asJSON       bool
	verbose      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.seed, "seed", os.Getenv("SEED_FILE"), "path to the JSON seed file")
	fs.StringVar(&opts.product, "product", "", "also list the products most often added after this product id")
	fs.IntVar(&opts.limit, "limit", recommend.DefaultRecommendationLimit, "maximum number of recommendations")
	fs.IntVar(&opts.minFrequency, "min-frequency", recommend.DefaultMinFrequency, "minimum shared carts for a product pair")
	fs.BoolVar(&opts.asJSON, "json", false, "print machine readable JSON instead of the text report")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return opts, errUsage
	}
	if opts.seed == "" {
		fmt.Fprintln(stderr, "analyze: -seed is required")
		fs.Usage()
		return opts, errUsage
	}
	return opts, nil
}

// analysis is the -json output
type analysis struct {
	Predecessors     []recommend.PredecessorStat     `json:"predecessors"`
	Followers        []recommend.FollowerStat        `json:"followers"`
	BoughtTogether   []recommend.CoOccurrencePair    `json:"frequently_bought_together"`
	Recommendations  []recommend.RecommendationEntry `json:"recommendations,omitempty"`
	ActiveCarts      int                             `json:"active_carts"`
	RecommendationOf string                          `json:"recommendations_for,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Output: stderr})

	repo := store.NewMemory()
	counts, err := database.NewSeedImporter(repo).ImportFile(ctx, opts.seed)
	if err != nil {
		return err
	}
	logging.Debug().Interface("imported", counts).Msg("Seed loaded")

	carts, err := repo.ActiveCarts(ctx)
	if err != nil {
		return err
	}
	seqs := make([]recommend.Sequence, len(carts))
	for i, c := range carts {
		seqs[i] = c
	}

	predecessors, err := recommend.AnalyzeSequences(seqs)
	if err != nil {
		return err
	}

	var recs []recommend.RecommendationEntry
	if opts.product != "" {
		recs, err = recommend.RecommendFollowersOf(models.ProductID(opts.product), seqs, opts.limit)
		if err != nil {
			return err
		}
	}

	if opts.asJSON {
		followers, err := recommend.AnalyzeFollowers(seqs)
		if err != nil {
			return err
		}
		pairs, err := recommend.CoOccurrencePairs(seqs, opts.minFrequency)
		if err != nil {
			return err
		}
		out := analysis{
			Predecessors:     sortedValues(predecessors, func(s recommend.PredecessorStat) models.ProductID { return s.ProductID }),
			Followers:        sortedValues(followers, func(s recommend.FollowerStat) models.ProductID { return s.ProductID }),
			BoughtTogether:   pairs,
			Recommendations:  recs,
			ActiveCarts:      len(carts),
			RecommendationOf: opts.product,
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	names, err := productNames(ctx, repo)
	if err != nil {
		return err
	}
	if err := report.WriteSequenceReport(stdout, predecessors, names); err != nil {
		return err
	}
	if opts.product != "" {
		return writeRecommendations(stdout, models.ProductID(opts.product), recs, names)
	}
	return nil
}

func productNames(ctx context.Context, repo store.ProductRepository) (map[models.ProductID]string, error) {
	names := make(map[models.ProductID]string)
	for _, t := range []models.ProductType{models.ProductTypeBook, models.ProductTypeMusicAlbum, models.ProductTypeSoftwareLicense} {
		products, err := repo.ListProducts(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			names[p.ProductID()] = p.Description()
		}
	}
	return names, nil
}

func writeRecommendations(w io.Writer, id models.ProductID, recs []recommend.RecommendationEntry, names map[models.ProductID]string) error {
	name := func(id models.ProductID) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id.String()
	}
	if _, err := fmt.Fprintf(w, "\nAdded after %s:\n", name(id)); err != nil {
		return err
	}
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "   nothing yet")
		return err
	}
	for i, r := range recs {
		if _, err := fmt.Fprintf(w, "   %d. %s (%d)\n", i+1, name(r.FollowedProductID), r.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// sortedValues flattens a stats map in product id order
func sortedValues[T any](m map[models.ProductID]T, key func(T) models.ProductID) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return strings.Compare(key(a).String(), key(b).String()) })
	return out
}
