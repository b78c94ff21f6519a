package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leadforge/leadcore/internal/config"
	lcerrors "github.com/leadforge/leadcore/internal/errors"
	"github.com/leadforge/leadcore/internal/logging"
	"github.com/leadforge/leadcore/internal/quickstart"
	"github.com/leadforge/leadcore/pkg/licensing"
)

const quickstartHelp = `Commands:
  personas                 list personas
  goals [persona]          list goals (defaults to the selected persona)
  persona <id>             select a persona
  goal <id>                select a goal for the selected persona
  hydrate <persona> [goal] apply session defaults (first load only)
  summary                  show the plan summary
  complete                 confirm the plan
  reset                    clear the selection
  signout                  end the session
  state                    show the wizard state
  quit                     exit`

func newQuickstartCmd(a *app) *cobra.Command {
	var (
		defaults    quickstart.SessionDefaults
		summaryIn   quickstart.SummaryInput
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "quickstart",
		Short: "Run the persona and goal wizard interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if summaryIn.Tier == "" {
				summaryIn.Tier = a.cfg.DefaultTier
			}
			if summaryIn.UpgradeURL == "" {
				summaryIn.UpgradeURL = a.cfg.UpgradeURL
			}
			if metricsAddr == "" {
				metricsAddr = a.cfg.MetricsAddr
			}

			sink, collection, closeSink, err := buildSink(a.cfg)
			if err != nil {
				return err
			}
			defer closeSink()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, _ = logging.WithRequestID(ctx, "")

			store := quickstart.NewStore(nil,
				quickstart.WithSink(sink),
				quickstart.WithLogger(logging.FromContext(ctx)),
			)
			session := &wizardSession{
				store:   store,
				guard:   licensing.NewEvaluator(licensing.DefaultRegistry()).WithMetrics(licensing.GetGuardMetrics()),
				summary: summaryIn,
				out:     cmd.OutOrStdout(),
			}

			if defaults.PersonaID != "" {
				if _, err := store.HydrateFromSession(ctx, defaults); err != nil {
					return err
				}
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			g, gctx := errgroup.WithContext(runCtx)

			if metricsAddr != "" {
				g.Go(func() error {
					return runMetricsServer(gctx, metricsAddr)
				})
			}
			if watcher := config.NewEnvWatcher(a.cfg, func(next *config.Config) { collection.Apply(next) }); watcher != nil {
				g.Go(func() error {
					return watcher.Run(gctx)
				})
			}
			g.Go(func() error {
				defer cancel()
				return session.run(gctx, cmd.InOrStdin())
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Debug().Str("session_id", store.SessionID()).Msg("Quickstart session ended")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&defaults.PersonaID, "default-persona", "", "Session default persona applied on start")
	f.StringVar(&defaults.GoalID, "default-goal", "", "Session default goal applied on start")
	f.StringVar(&summaryIn.Tier, "tier", "", "Account tier (defaults to LEADCORE_DEFAULT_TIER)")
	f.IntVar(&summaryIn.Months, "months", quickstart.DefaultSummaryMonths, "ROI projection horizon in months")
	f.Float64Var(&summaryIn.ProfitMarginPercent, "margin", 65, "Profit margin in percent")
	f.Float64Var(&summaryIn.MonthlyOverhead, "overhead", 0, "Monthly overhead")
	f.Float64Var(&summaryIn.HoursPerDeal, "hours-per-deal", 12, "Hours saved per closed deal")
	f.BoolVar(&summaryIn.Import.HasConnectedCRM, "crm", false, "A CRM is connected")
	f.StringVar(&summaryIn.Import.CRMDisplayLabel, "crm-label", "", "Display name of the connected CRM")
	f.BoolVar(&summaryIn.Import.HasLeadLists, "lists", false, "The account already has lead lists")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")
	return cmd
}

// wizardSession is the line-oriented front end for one Store.
type wizardSession struct {
	store   *quickstart.Store
	guard   *licensing.Evaluator
	summary quickstart.SummaryInput
	out     io.Writer
}

// run reads commands from in until quit, EOF or ctx is done. A blocked read
// cannot be interrupted, so when in is an io.Closer it is closed on return to
// release the reader goroutine.
func (s *wizardSession) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if closer, ok := in.(io.Closer); ok {
		defer closer.Close()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprintln(s.out, "LeadForge quick start. Type 'help' for commands.")
	s.printState()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			done, err := s.handle(ctx, line)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			if done {
				return nil
			}
		}
	}
}

// handle executes one command line and reports whether the session should end.
func (s *wizardSession) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	catalog := s.store.Catalog()
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	var err error
	switch strings.ToLower(fields[0]) {
	case "help", "?":
		fmt.Fprintln(s.out, quickstartHelp)
		return false, nil
	case "quit", "exit":
		return true, nil
	case "personas":
		for _, p := range catalog.Personas() {
			fmt.Fprintf(s.out, "  %-12s %s. %s\n", p.ID, p.Title, p.Headline)
		}
		return false, nil
	case "goals":
		persona := quickstart.PersonaID(arg(1))
		if persona == "" {
			persona = s.store.State().PersonaID
		}
		if persona == "" {
			return false, lcerrors.WrapTransition("goals", "", quickstart.ErrPersonaRequired)
		}
		for _, g := range catalog.GoalsFor(persona) {
			fmt.Fprintf(s.out, "  %-20s %s: %s\n", g.ID, g.Title, g.Description)
		}
		return false, nil
	case "persona":
		_, err = s.store.SelectPersona(ctx, quickstart.PersonaID(arg(1)))
	case "goal":
		_, err = s.store.SelectGoal(ctx, quickstart.GoalID(arg(1)))
	case "hydrate":
		_, err = s.store.HydrateFromSession(ctx, quickstart.SessionDefaults{PersonaID: arg(1), GoalID: arg(2)})
	case "complete":
		_, err = s.store.Complete(ctx)
	case "reset":
		_, err = s.store.Reset(ctx)
	case "signout":
		_, err = s.store.SignOut(ctx)
	case "summary":
		return false, s.printSummary()
	case "state":
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", fields[0])
	}
	if err != nil {
		return false, err
	}
	s.printState()
	return false, nil
}

func (s *wizardSession) printState() {
	st := s.store.State()
	fmt.Fprintf(s.out, "[%s] persona=%s goal=%s\n", st.Phase(), orNone(string(st.PersonaID)), orNone(string(st.GoalID)))
}

func (s *wizardSession) printSummary() error {
	sum, err := quickstart.BuildSummary(s.store.Catalog(), s.guard, s.store.State(), s.summary)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: %s\n  %s\n", sum.Persona.Title, sum.Goal.Title, sum.Goal.Outcome)
	fmt.Fprintf(s.out, "Recommended on %s:\n", licensing.GetTierDisplayName(sum.Tier))
	for _, f := range sum.Features {
		status := "ready"
		if f.Decision.IsUpgradeRequired {
			status = "requires " + licensing.GetFeatureMinTierName(f.FeatureKey) + " or above"
		}
		fmt.Fprintf(s.out, "  - %-24s %s\n", f.DisplayName, status)
	}
	fmt.Fprintf(s.out, "Projected ROI: %.2f%% (net profit %.2f on %.2f)\n", sum.ROI.ROI, sum.ROI.NetProfit, sum.ROI.TotalCost)
	fmt.Fprintf(s.out, "Next step: %s (%s)\n", sum.Import.Title, sum.Import.Description)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
