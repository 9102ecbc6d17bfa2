package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/spydle/internal/wordpack"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	advisorMaxDelay time.Duration
	advisorMinDelay time.Duration
	bind            string
	db              string
	port            int
	prefix          string
	profile         bool
	sessionTimeout  time.Duration
	tlsCert         string
	tlsKey          string
	turnTimer       time.Duration
	verbose         bool
	version         bool
	wordPack        string
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.turnTimer < 0 {
		return fmt.Errorf("invalid turn timer (must not be negative): %s", c.turnTimer)
	}
	if c.advisorMinDelay < 0 || c.advisorMaxDelay < c.advisorMinDelay {
		return fmt.Errorf("invalid advisor delay (need 0 <= min <= max): %s-%s", c.advisorMinDelay, c.advisorMaxDelay)
	}
	if _, ok := wordpack.Default().Lookup(c.wordPack); !ok {
		return fmt.Errorf("%w: %q", wordpack.ErrUnknownPack, c.wordPack)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// bindEnv lets SPYDLE_* environment variables fill in any flag not given on
// the command line.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SPYDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "spydle",
		Short:         "A two-team word-guessing party game, served over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PreRun: func(cmd *cobra.Command, args []string) {
			bindEnv(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(normalizeFlags)

	fs.DurationVar(&cfg.advisorMaxDelay, "advisor-max-delay", 1400*time.Millisecond, "longest simulated thinking time for suggested clues (env: SPYDLE_ADVISOR_MAX_DELAY)")
	fs.DurationVar(&cfg.advisorMinDelay, "advisor-min-delay", 600*time.Millisecond, "shortest simulated thinking time for suggested clues (env: SPYDLE_ADVISOR_MIN_DELAY)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SPYDLE_BIND)")
	fs.StringVar(&cfg.db, "db", "", "path to sqlite database for room storage, in-memory if unset (env: SPYDLE_DB)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SPYDLE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SPYDLE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SPYDLE_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are removed (env: SPYDLE_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SPYDLE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SPYDLE_TLS_KEY)")
	fs.DurationVar(&cfg.turnTimer, "turn-timer", 2*time.Minute, "default time limit for a guessing turn, 0 to disable (env: SPYDLE_TURN_TIMER)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SPYDLE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SPYDLE_VERSION)")
	fs.StringVar(&cfg.wordPack, "word-pack", "classic", "default word pack for new rooms (env: SPYDLE_WORD_PACK)")

	cmd.AddCommand(newDealCmd(v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("spydle v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
