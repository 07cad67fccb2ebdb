// Command yatriq serves the travel-insight API and runs one-off lookups
// against the sample providers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/yatriq"
	"github.com/theoremus-urban-solutions/yatriq/config"
	"github.com/theoremus-urban-solutions/yatriq/intent"
	"github.com/theoremus-urban-solutions/yatriq/internal"
	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/tracking"
)

const (
	Version = "0.1.0"
	appName = "yatriq"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Train search with seat, tatkal and sentiment insights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML); defaults to ./config.yml")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(g),
		searchCmd(g),
		insightCmd(g),
		trackCmd(g),
		intentCmd(g),
		pnrCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// loadConfig reads .env, then the config file, then sets up logging.
func (g *globals) loadConfig() (config.AppConfig, error) {
	_ = godotenv.Load()
	if g.configPath != "" {
		cfg, err := config.LoadFromFile(g.configPath)
		if err != nil {
			return config.AppConfig{}, fmt.Errorf("load config %s: %w", g.configPath, err)
		}
		config.Config = cfg
	} else if err := config.LoadAppConfig(); err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	cfg := config.Config
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	internal.InitLogging(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func (g *globals) newClient(ctx context.Context) (*yatriq.Client, config.AppConfig, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	c, err := yatriq.New(ctx, yatriq.Options{Config: &cfg})
	if err != nil {
		return nil, cfg, fmt.Errorf("create client: %w", err)
	}
	return c, cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCmd(g *globals) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			if port > 0 {
				cfg.Server.Port = port
			}
			srv := yatriq.NewServer(c, cfg.Server.Port, cfg.Server.CORSOrigins)
			srv.Start()
			return srv.WaitForSignal()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	return cmd
}

func searchCmd(g *globals) *cobra.Command {
	var criteria model.SearchCriteria
	cmd := &cobra.Command{
		Use:   "search FROM TO",
		Short: "Search trains between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			criteria.From, criteria.To = args[0], args[1]
			trains, err := c.SearchTrains(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			return printJSON(trains)
		},
	}
	cmd.Flags().StringVar(&criteria.Date, "date", "", "Journey date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&criteria.Class, "class", "", "Travel class (1A, 2A, 3A, SL)")
	cmd.Flags().StringVar(&criteria.SortBy, "sort", "", "Sort order (relevance, duration, fare, departure)")
	return cmd
}

func insightCmd(g *globals) *cobra.Command {
	var q model.InsightQuery
	cmd := &cobra.Command{
		Use:   "insight TRAIN_NO",
		Short: "Fetch seat, tatkal and sentiment predictions for a train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			q.TrainNo = args[0]
			return printJSON(c.GetCompositeInsight(cmd.Context(), q))
		},
	}
	cmd.Flags().StringVar(&q.Date, "date", "", "Journey date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.Class, "class", "", "Travel class")
	cmd.Flags().StringVar(&q.Quota, "quota", "", "Booking quota")
	return cmd
}

func trackCmd(g *globals) *cobra.Command {
	var delay int
	cmd := &cobra.Command{
		Use:   "track TRAIN_NO",
		Short: "Follow a train until it arrives or the command is interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			c, _, err := g.newClient(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			var opts []tracking.StartOption
			if delay > 0 {
				opts = append(opts, tracking.WithDelay(delay))
			}
			// steps are seconds apart; a full buffer only drops a stale state
			updates := make(chan model.TrackingState, 4)
			opts = append(opts, tracking.WithSubscriber(func(st model.TrackingState) {
				select {
				case updates <- st:
				default:
				}
			}))
			st, err := c.StartTracking(ctx, args[0], nil, 0, opts...)
			if err != nil {
				return err
			}
			for {
				if err := printJSON(summary(st)); err != nil {
					return err
				}
				if st.Status == model.StatusArrived {
					return nil
				}
				select {
				case st = <-updates:
				case <-ctx.Done():
					c.StopTracking(args[0])
					return nil
				}
			}
		},
	}
	cmd.Flags().IntVar(&delay, "delay", 0, "Delay in minutes to report (overrides the provider)")
	return cmd
}

type trackSummary struct {
	TrainNo  string       `json:"trainNo"`
	Status   model.Status `json:"status"`
	Station  string       `json:"station"`
	Next     string       `json:"next,omitempty"`
	DelayMin int          `json:"delayMin"`
}

func summary(st model.TrackingState) trackSummary {
	s := trackSummary{TrainNo: st.TrainNo, Status: st.Status, DelayMin: st.DelayMinutes}
	if cur, ok := st.Current(); ok {
		s.Station = cur.Name
	}
	if next, ok := st.Next(); ok {
		s.Next = next.Name
	}
	return s
}

func intentCmd(g *globals) *cobra.Command {
	var ictx model.IntentContext
	var chat bool
	cmd := &cobra.Command{
		Use:   "intent TEXT...",
		Short: "Classify a free-text request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if !chat {
				if _, err := g.loadConfig(); err != nil {
					return err
				}
				return printJSON(intent.Classify(text, ictx))
			}
			c, _, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			in, err := c.Chat(cmd.Context(), text, ictx)
			if err != nil {
				return err
			}
			return printJSON(in)
		},
	}
	cmd.Flags().StringVar(&ictx.From, "from", "", "Current origin station code")
	cmd.Flags().StringVar(&ictx.To, "to", "", "Current destination station code")
	cmd.Flags().BoolVar(&chat, "chat", false, "Ask the assistant provider instead of classifying locally")
	return cmd
}

func pnrCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "pnr PNR",
		Short: "Look up a booking by its ten digit PNR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			b, err := c.LookupPNR(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(struct {
				model.Booking
				State model.BookingState `json:"state"`
			}{b, b.State()})
		},
	}
}
