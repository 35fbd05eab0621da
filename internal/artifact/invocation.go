package artifact

import (
	"fmt"
	"strings"
)

// checksumAlgorithms overrides the deploy tool's default of MD5+SHA-1 so
// uploads carry the same checksum set other build-tool publishers produce.
const checksumAlgorithms = "MD5,SHA-1,SHA-256,SHA-512"

// deployGoal is the deploy tool target used to publish a pre-built artifact
// set without a project build.
const deployGoal = "deploy:deploy-file"

// InvocationOptions carries the run-level settings shared by every family's
// deploy invocation.
type InvocationOptions struct {
	SettingsPath string
	RepoURL      string
	RepoID       string
	Retries      int
}

// Invocation is one fully-formed deploy command for a single family. It is
// opaque to the builder; execution happens elsewhere.
type Invocation struct {
	Args       []string
	Dir        string
	Descriptor string
	MainBinary string
	Extras     []ExtraArtifact
}

// Invocation assembles the deploy command for the family. The caller must
// have verified the main binary exists.
func (f Family) Invocation(opts InvocationOptions) (*Invocation, error) {
	extras, err := f.Extras()
	if err != nil {
		return nil, err
	}

	args := []string{
		"--batch-mode",
		"--settings", opts.SettingsPath,
		deployGoal,
		"-Daether.checksums.algorithms=" + checksumAlgorithms,
		fmt.Sprintf("-DretryFailedDeploymentCount=%d", opts.Retries),
		"-Durl=" + opts.RepoURL,
		"-DrepositoryId=" + opts.RepoID,
		"-DpomFile=" + f.Descriptor(),
		"-Dfile=" + f.MainBinary(),
	}

	if len(extras) > 0 {
		files := make([]string, len(extras))
		types := make([]string, len(extras))
		classifiers := make([]string, len(extras))
		for i, extra := range extras {
			files[i] = extra.File
			types[i] = extra.Type
			classifiers[i] = extra.Classifier
		}
		args = append(args,
			"-Dfiles="+strings.Join(files, ","),
			"-Dtypes="+strings.Join(types, ","),
			"-Dclassifiers="+strings.Join(classifiers, ","),
		)
	}

	return &Invocation{
		Args:       args,
		Dir:        f.Dir,
		Descriptor: f.Descriptor(),
		MainBinary: f.MainBinary(),
		Extras:     extras,
	}, nil
}
