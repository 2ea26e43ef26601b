package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"pet-market-engine/internal/adapters/storage/sqlite"
	"pet-market-engine/internal/config"
	"pet-market-engine/internal/host"
	"pet-market-engine/internal/platform/amount"
	"pet-market-engine/internal/platform/logger"
	"pet-market-engine/internal/router"
)

type entry string

const (
	entryInit   entry = "init"
	entryHandle entry = "handle"
	entryQuery  entry = "query"
)

// CallOptions son los flags de init/handle/query.
type CallOptions struct {
	*RootOptions
	Sender string
	Time   uint64
	Funds  string
}

var entryHelp = map[entry]string{
	entryInit:   "Instantiate a contract",
	entryHandle: "Execute a handle message",
	entryQuery:  "Run a read-only query",
}

// NewCallCommand arma init, handle o query según e.
func NewCallCommand(rootOpts *RootOptions, e entry) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   string(e) + " <market|pet> <json-msg>",
		Short: entryHelp[e],
		Long: entryHelp[e] + `.

Example:
  engine handle pet --sender secret1alice --time 100 '{"create_pet":{"name":"Zorro","allowed_feed_timespan":3600,"total_saturation_time":14200}}'
  engine handle market --sender secret1alice --funds 10uscrt '{"buy_food":{}}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, opts, e, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "caller address (required for init/handle)")
	cmd.Flags().Uint64Var(&opts.Time, "time", 0, "block time in unix seconds (0 = now)")
	if e != entryQuery {
		cmd.Flags().StringVar(&opts.Funds, "funds", "", "attached coins, e.g. 100uscrt,5uscrt")
	}

	return cmd
}

func runCall(cmd *cobra.Command, opts *CallOptions, e entry, contract, rawMsg string) error {
	if !json.Valid([]byte(rawMsg)) {
		return fmt.Errorf("msg is not valid JSON")
	}
	if e != entryQuery && strings.TrimSpace(opts.Sender) == "" {
		return fmt.Errorf("--sender is required for %s", e)
	}
	funds, err := ParseCoins(opts.Funds)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.DBPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	store, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	log := logger.Nop()
	if opts.Verbose {
		log = logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatText, App: "engine", Output: cmd.ErrOrStderr()})
	}

	exec, err := router.NewExecutor(router.Options{
		Store:  store,
		Logger: log,
		Market: host.ContractRef{Address: cfg.Contracts.Market.Address, CodeHash: cfg.Contracts.Market.CodeHash},
		Pet:    host.ContractRef{Address: cfg.Contracts.Pet.Address, CodeHash: cfg.Contracts.Pet.CodeHash},
	})
	if err != nil {
		return err
	}

	call := host.Call{Sender: opts.Sender, Funds: funds, Msg: json.RawMessage(rawMsg)}
	if opts.Time != 0 {
		t := opts.Time
		call.BlockTime = &t
	}

	var out host.CallResponse
	switch e {
	case entryQuery:
		data, err := exec.Query(cmd.Context(), contract, call)
		if err != nil {
			return err
		}
		out = host.CallResponse{Data: data, Effects: []host.Effect{}}
	case entryInit:
		resp, err := exec.Init(cmd.Context(), contract, call)
		if err != nil {
			return err
		}
		out = host.CallResponse{Data: resp.Data, Effects: resp.Effects}
	default:
		resp, err := exec.Handle(cmd.Context(), contract, call)
		if err != nil {
			return err
		}
		out = host.CallResponse{Data: resp.Data, Effects: resp.Effects}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var coinRe = regexp.MustCompile(`^([0-9]+)([a-zA-Z][a-zA-Z0-9/]*)$`)

// ParseCoins lee "100uscrt,5uscrt" en la lista de fondos adjuntos.
func ParseCoins(s string) ([]host.Coin, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []host.Coin
	for _, part := range strings.Split(s, ",") {
		m := coinRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("invalid coin %q: want <amount><denom>", part)
		}
		a, err := amount.Parse(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid coin %q: %w", part, err)
		}
		out = append(out, host.Coin{Denom: m[2], Amount: a})
	}
	return out, nil
}
