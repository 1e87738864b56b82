package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/veridata/dataquality-go/client"
	"github.com/veridata/dataquality-go/client/credstore"
	"github.com/veridata/dataquality-go/dashboard"
	"github.com/veridata/dataquality-go/internal/config"
	"github.com/veridata/dataquality-go/internal/utils"
	"github.com/veridata/dataquality-go/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running dashboard: %s\n", err)
	}
	log.Printf("Dashboard stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	store := credstore.NewFileRepo(c.GetTokenFile())
	source := client.NewSource(c, client.WithStore(store), client.WithLogger(logger))
	bridge := session.NewBridge(source, session.WithLogger(logger))
	provider := session.NewPasswordProvider(source, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := signIn(ctx, provider, store, c, logger); err != nil {
		return err
	}
	defer provider.SignOut()

	dash := dashboard.NewStore(source, bridge, dashboard.WithStoreLogger(logger))

	go dash.PollDashboard(ctx, func(overview *client.DashboardOverview, err error) {
		if err != nil {
			logger.Error().Err(err).Msg("dashboard overview fetch failed")
			return
		}
		logger.Info().
			Int("datasets", overview.DatasetCount).
			Int("active_rules", overview.ActiveRuleCount).
			Int("open_issues", overview.OpenIssueCount).
			Int("critical", overview.CriticalCount).
			Float64("quality_score", overview.QualityScore).
			Time("last_execution", utils.Value(overview.LastExecutionAt)).
			Msg("dashboard overview")
	})

	go dash.PollIssueStatistics(ctx, 7, func(stats *client.IssueStatistics, err error) {
		if err != nil {
			logger.Error().Err(err).Msg("issue statistics fetch failed")
			return
		}
		logger.Info().
			Int("total", stats.Total).
			Int("resolved", stats.Resolved).
			Int("unresolved", stats.Unresolved).
			Msg("issue summary (7d)")
	})

	waitForStopSignal()
	return nil
}

// signIn resumes a stored session when possible, otherwise signs in with the
// configured credentials.
func signIn(ctx context.Context, provider *session.PasswordProvider, store *credstore.FileRepo, c config.Config, logger zerolog.Logger) error {
	resumed, err := provider.Resume(ctx, store.Load)
	if err != nil {
		logger.Warn().Err(err).Msg("session resume failed, signing in")
	}
	if resumed {
		logger.Info().Msg("resumed stored session")
		return nil
	}

	email, password := c.GetSignInEmail(), c.GetSignInPassword()
	if email == "" || password == "" {
		return errors.New("no stored session and no DASHBOARD_EMAIL/DASHBOARD_PASSWORD configured")
	}
	if _, err := provider.SignIn(ctx, email, password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	logger.Info().Str("email", email).Msg("signed in")
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
