// Package deploy orchestrates a publish run: restore the dependency cache,
// generate the settings file, discover artifact families and deploy each one
// through the external deploy tool, then save the cache back.
package deploy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvnpub/mvnpub/internal/artifact"
	"github.com/mvnpub/mvnpub/internal/cache"
	"github.com/mvnpub/mvnpub/internal/maven"
	"github.com/mvnpub/mvnpub/internal/runner"
	"github.com/mvnpub/mvnpub/util/common"
	"github.com/mvnpub/mvnpub/util/common/errors"
)

// mvnExecutable is the deploy tool binary resolved from PATH.
const mvnExecutable = "mvn"

// Credentials carries the remote repository credential pair. The password is
// forwarded to the deploy tool through the environment only.
type Credentials struct {
	Username string
	Password string
}

// prober answers whether an artifact already exists remotely.
type prober interface {
	Exists(ctx context.Context, c maven.Coordinates) (bool, error)
}

// cacheStore is the hosted restore/save pair.
type cacheStore interface {
	Restore(ctx context.Context, key string) error
	Save(ctx context.Context, key string) error
}

// Summary is what a finished run reports.
type Summary struct {
	Published      int
	AlreadyPresent int
	Skipped        int
}

// Service runs the publish loop. Collaborators are fields so tests can
// substitute fakes; NewService wires the real ones.
type Service struct {
	cfg     *Config
	creds   Credentials
	runner  runner.Runner
	probe   prober
	cache   cacheStore
	mvnPath string
}

// NewService creates a publish service from configuration and credentials.
func NewService(cfg *Config, creds Credentials) *Service {
	s := &Service{
		cfg:     cfg,
		creds:   creds,
		runner:  runner.NewExecRunner(),
		probe:   maven.NewProbe(cfg.Repository.URL, creds.Username, creds.Password),
		mvnPath: mvnExecutable,
	}
	if cfg.Cache.URL != "" && !cfg.Cache.Skip {
		s.cache = cache.NewClient(cfg.Cache.URL, cfg.Cache.LocalRepo)
	}
	return s
}

// Run executes the publish run sequentially, one family at a time. The cache
// is saved back even when a deploy fails; the deploy failure wins.
func (s *Service) Run(ctx context.Context) (summary Summary, err error) {
	runLogger := log.With().Str("trace_id", uuid.New().String()).Logger()
	runLogger.Info().Str("repository", s.cfg.Repository.URL).
		Str("path", s.cfg.Publish.Path).Msg("Starting publish run")

	if s.cache != nil {
		if cerr := s.cache.Restore(ctx, cache.Key()); cerr != nil {
			return summary, cerr
		}
		defer func() {
			if serr := s.cache.Save(context.WithoutCancel(ctx), cache.Key()); serr != nil {
				if err == nil {
					err = serr
					return
				}
				runLogger.Error().Err(serr).Msg("Cache save failed after run error")
			}
		}()
	}

	settingsPath, err := maven.WriteSettings(s.cfg.Publish.TempDir)
	if err != nil {
		return summary, err
	}
	runLogger.Debug().Str("settings", settingsPath).Msg("Settings file written")

	families, err := artifact.Discover(s.cfg.Publish.Path, &s.cfg.Publish.Filters)
	if err != nil {
		return summary, err
	}
	if len(families) == 0 {
		runLogger.Info().Msg("No descriptor files found, nothing to publish")
		return summary, nil
	}

	opts := artifact.InvocationOptions{
		SettingsPath: settingsPath,
		RepoURL:      s.cfg.Repository.URL,
		RepoID:       maven.RepoID,
		Retries:      s.cfg.Publish.Retries,
	}

	for _, fam := range families {
		outcome, ferr := s.publishFamily(ctx, runLogger, fam, opts)
		if ferr != nil {
			return summary, ferr
		}
		switch outcome {
		case outcomePublished:
			summary.Published++
		case outcomeAlreadyPresent:
			summary.AlreadyPresent++
		case outcomeSkipped:
			summary.Skipped++
		}
	}

	pterm.DefaultSection.Println("Publish summary")
	pterm.Info.Printfln("published: %d, already present: %d, skipped: %d",
		summary.Published, summary.AlreadyPresent, summary.Skipped)
	return summary, nil
}

type familyOutcome int

const (
	outcomePublished familyOutcome = iota
	outcomeAlreadyPresent
	outcomeSkipped
)

func (s *Service) publishFamily(ctx context.Context, runLogger zerolog.Logger,
	fam artifact.Family, opts artifact.InvocationOptions) (familyOutcome, error) {

	famLogger := runLogger.With().Str("artifact", fam.BaseName).Logger()

	if !fam.HasMainBinary() {
		famLogger.Warn().Str("expected", fam.MainBinary()).
			Msg("Main artifact missing, skipping family")
		return outcomeSkipped, nil
	}

	inv, err := fam.Invocation(opts)
	if err != nil {
		return 0, err
	}

	if info, serr := os.Stat(inv.MainBinary); serr == nil {
		famLogger.Info().Str("size", common.GetSize(info.Size())).
			Int("extras", len(inv.Extras)).Msg("Deploying artifact family")
	}

	if s.cfg.Publish.DryRun {
		famLogger.Info().Strs("args", inv.Args).Msg("Dry run, deploy skipped")
		pterm.Info.Printfln("dry-run %s", fam.BaseName)
		return outcomePublished, nil
	}

	res, err := s.runner.Run(ctx, runner.Command{
		Path: s.mvnPath,
		Args: inv.Args,
		Dir:  inv.Dir,
		Env: []string{
			maven.EnvUsername + "=" + s.creds.Username,
			maven.EnvPassword + "=" + s.creds.Password,
		},
	})
	if err != nil {
		return 0, errors.Wrap(err, "running deploy tool")
	}

	if res.ExitCode == 0 {
		famLogger.Info().Msg("Artifact family published")
		pterm.Success.Printfln("published %s", fam.BaseName)
		return outcomePublished, nil
	}

	if !runner.IsDuplicateRejection(res) {
		return 0, errors.NewDeployError(fam.BaseName, res.ExitCode,
			fmt.Errorf("deploy tool output: %s", outputTail(res)))
	}

	// The remote answered 400. If the artifact is already there this is a
	// re-run of a previous publish, which is benign.
	coords, perr := maven.ParsePOM(fam.Descriptor())
	if perr == nil {
		exists, xerr := s.probe.Exists(ctx, coords)
		if xerr != nil {
			famLogger.Warn().Err(xerr).Msg("Existence probe failed, cannot confirm prior publish")
		} else if exists {
			famLogger.Warn().Msg("Remote rejected upload but artifact already exists, treating as published")
			pterm.Warning.Printfln("already present %s", fam.BaseName)
			return outcomeAlreadyPresent, nil
		}
	} else {
		famLogger.Warn().Err(perr).Msg("Cannot derive coordinates for existence probe")
	}

	return 0, errors.NewDeployError(fam.BaseName, res.ExitCode,
		fmt.Errorf("remote rejected upload: %s", outputTail(res)))
}

// outputTail keeps error messages readable: the last few lines of whatever
// the deploy tool printed.
func outputTail(res runner.Result) string {
	combined := strings.TrimSpace(res.Stdout + "\n" + res.Stderr)
	lines := strings.Split(combined, "\n")
	const keep = 10
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}
