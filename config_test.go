package qsim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	Convey("Given no config file", t, func() {
		config, err := LoadConfig("")
		So(err, ShouldBeNil)

		Convey("The defaults match NewConfig", func() {
			So(config, ShouldResemble, NewConfig())
			So(config.Entropy.BaudRate, ShouldEqual, 9600)
			So(config.Entropy.RefreshInterval, ShouldEqual, 5*time.Second)
			So(config.Entropy.DeviceMatch, ShouldEqual, "/dev/cu.usbmodem14")
		})
	})

	Convey("Given a YAML file and environment overrides", t, func() {
		path := writeConfig(t, "qsim.yaml", `
register:
  max_qubits: 12
  weighting: probability
entropy:
  device_match: /dev/cu.usbserial
  refresh_interval: 2s
log:
  level: debug
`)

		t.Setenv("QSIM_SAMPLER_WORKERS", "3")
		t.Setenv("QSIM_REGISTER_DENSE_OPERATOR_QUBITS", "6")

		config, err := LoadConfig(path)
		So(err, ShouldBeNil)

		Convey("File values replace the defaults", func() {
			So(config.Register.MaxQubits, ShouldEqual, 12)
			So(config.Register.Weighting, ShouldEqual, "probability")
			So(config.Entropy.DeviceMatch, ShouldEqual, "/dev/cu.usbserial")
			So(config.Entropy.RefreshInterval, ShouldEqual, 2*time.Second)
			So(config.Log.Level, ShouldEqual, "debug")
		})

		Convey("Environment values win", func() {
			So(config.Sampler.Workers, ShouldEqual, 3)
			So(config.Register.DenseOperatorQubits, ShouldEqual, 6)
		})

		Convey("Untouched keys keep their defaults", func() {
			So(config.Register.Tolerance, ShouldEqual, DefaultTolerance)
			So(config.Entropy.BaudRate, ShouldEqual, 9600)
		})

		Convey("The register options carry the settings", func() {
			r, err := NewRegister(12, NewSequenceSource(), config.RegisterOptions()...)
			So(err, ShouldBeNil)
			So(r.Weighting(), ShouldEqual, ProbabilityWeighting)

			_, err = NewRegister(13, NewSequenceSource(), config.RegisterOptions()...)
			So(err, ShouldWrap, ErrRegisterTooLarge)
		})
	})

	Convey("Given an unknown weighting", t, func() {
		path := writeConfig(t, "qsim.toml", "[register]\nweighting = \"sideways\"\n")

		_, err := LoadConfig(path)
		So(err, ShouldWrap, ErrUnknownWeighting)
	})

	Convey("Given a missing file", t, func() {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestParseWeighting(t *testing.T) {
	Convey("Given weighting names", t, func() {
		w, err := ParseWeighting("Probability")
		So(err, ShouldBeNil)
		So(w, ShouldEqual, ProbabilityWeighting)

		w, err = ParseWeighting("")
		So(err, ShouldBeNil)
		So(w, ShouldEqual, MagnitudeWeighting)

		So(MagnitudeWeighting.String(), ShouldEqual, "magnitude")
		So(Weighting(9).String(), ShouldEqual, "weighting(9)")
	})
}
