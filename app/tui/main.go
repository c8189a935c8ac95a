package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/clients_search/client"
	"github.com/noelzubin/clients_search/filter"
	"github.com/noelzubin/clients_search/search"
	"github.com/noelzubin/clients_search/search/bleve_indexer"
	"github.com/noelzubin/clients_search/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// v holds flag values bound over the config file.
var v = viper.New()

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clients_search",
	Short: "Browse and filter the client directory",
	Long: `Shows the client directory in a table that narrows as you type
into the name or post code filter.

Controls:
  Tab        - Switch filter field
  ↑/↓        - Move in the table
  Ctrl+R     - Reload records
  Ctrl+O     - Edit the records file
  Esc/Ctrl+C - Quit`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var (
	queryName     string
	queryPostcode string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter the client directory once and print the result",
	Args:  cobra.NoArgs,
	RunE:  runQuery,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/clients_search/config.yaml)")
	flags.Int("records", 25, "number of clients to generate")
	flags.Int64("seed", 0, "seed for generated clients, 0 for random")
	flags.String("file", "", "JSON file of clients to load instead of generating")
	_ = v.BindPFlag("records", flags.Lookup("records"))
	_ = v.BindPFlag("seed", flags.Lookup("seed"))
	_ = v.BindPFlag("records_file", flags.Lookup("file"))

	queryCmd.Flags().StringVar(&queryName, "name", "", "filter by client name")
	queryCmd.Flags().StringVar(&queryPostcode, "postcode", "", "filter by post code")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	queryCmd.MarkFlagsMutuallyExclusive("name", "postcode")
	queryCmd.MarkFlagsOneRequired("name", "postcode")
	rootCmd.AddCommand(queryCmd)
}

// loadStore reads the records file when configured, otherwise generates.
func loadStore(config *utils.Config) (*client.Store, error) {
	if config.RecordsFile != "" {
		return client.LoadFile(config.RecordsFile)
	}
	return client.Generate(config.Records, config.Seed)
}

// newFilter loads the records and builds their index.
func newFilter(config *utils.Config) (*filter.Filter, error) {
	store, err := loadStore(config)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	build := bleve_indexer.Builder(bleve_indexer.Options{NameBoost: config.NameBoost})
	return filter.New(store, build)
}

func runTUI(cmd *cobra.Command, args []string) error {
	config, err := utils.LoadConfig(v, configPath)
	if err != nil {
		return err
	}

	// Setup logging.
	if err := os.MkdirAll(filepath.Dir(config.LogPath), 0700); err != nil {
		return err
	}
	f, err := tea.LogToFile(config.LogPath, "debug")
	if err != nil {
		return err
	}
	defer f.Close()

	flt, err := newFilter(config)
	if err != nil {
		return err
	}
	defer flt.Close()
	log.Printf("indexed %d clients", flt.Store().Len())

	reload := func() (*client.Store, error) {
		return loadStore(config)
	}

	m := New(flt, reload, config.RecordsFile, config.Editor)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// queryOutput is the JSON shape of a resolved filter.
type queryOutput struct {
	Mode    string          `json:"mode"`
	Results []client.Record `json:"results"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	config, err := utils.LoadConfig(v, configPath)
	if err != nil {
		return err
	}
	log.SetOutput(cmd.ErrOrStderr())

	flt, err := newFilter(config)
	if err != nil {
		return err
	}
	defer flt.Close()

	ev := filter.Event{Field: search.Name, Input: queryName}
	if cmd.Flags().Changed("postcode") {
		ev = filter.Event{Field: search.Postcode, Input: queryPostcode}
	}

	state := flt.Apply(ev)
	if queryJSON {
		return outputQueryJSON(cmd, state, flt.Visible())
	}
	return outputQueryTable(cmd, state, flt.Visible())
}

func outputQueryJSON(cmd *cobra.Command, state search.FilterState, visible []client.Record) error {
	data, err := json.MarshalIndent(queryOutput{Mode: state.Mode.String(), Results: visible}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, state search.FilterState, visible []client.Record) error {
	if state.Mode == search.Filtered && len(visible) == 0 {
		cmd.Println(noMatches + ".")
		return nil
	}

	cmd.Printf("%-24s %-16s %-10s %s\n", "Client name", "Date of birth", "PostCode", "Account Num")
	for _, r := range visible {
		cmd.Printf("%-24s %-16s %-10s %s\n", r.Name, r.DOB, r.Postcode, r.AccountNum)
	}
	return nil
}

func main() {
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
