package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tronwallet/walletgo/common/errors"
)

// binding is what a child command inherits from the viper of its parent.
type binding struct {
	envPrefix string
	flags     *pflag.FlagSet
}

var (
	bindingsLock sync.Mutex
	bindings     = map[*viper.Viper]*binding{}
)

func bindingOf(vc *viper.Viper) *binding {
	bindingsLock.Lock()
	defer bindingsLock.Unlock()
	return bindings[vc]
}

// NewCommand creates a sub command of parentCmd with its own viper. The
// child reads the same environment variables as the parent and sees the
// persistent flags bound to the parent viper.
func NewCommand(parentCmd *cobra.Command, parentVc *viper.Viper, use, short string) (*cobra.Command, *viper.Viper) {
	c := &cobra.Command{Use: use, Short: short}
	c.SetFlagErrorFunc(flagUsageError)
	if parentCmd != nil {
		parentCmd.AddCommand(c)
	}

	envPrefix := strings.ReplaceAll(c.CommandPath(), " ", "_")
	var inherited *pflag.FlagSet
	if parentVc != nil {
		if b := bindingOf(parentVc); b != nil {
			envPrefix, inherited = b.envPrefix, b.flags
		}
	}
	vc := NewViper(envPrefix)
	if inherited != nil {
		_ = BindPFlags(vc, inherited)
	}
	return c, vc
}

// NewViper returns a viper reading environment variables of envPrefix.
// Keys are delimited by "::" since map keys of the config, like witness
// URLs, contain dots.
func NewViper(envPrefix string) *viper.Viper {
	vc := viper.NewWithOptions(viper.KeyDelimiter("::"))
	vc.AutomaticEnv()
	vc.SetEnvPrefix(envPrefix)
	vc.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	bindingsLock.Lock()
	defer bindingsLock.Unlock()
	bindings[vc] = &binding{
		envPrefix: envPrefix,
		flags:     pflag.NewFlagSet(envPrefix, pflag.ContinueOnError),
	}
	return vc
}

// BindPFlags binds fs to vc and records it for the children of vc.
func BindPFlags(vc *viper.Viper, fs *pflag.FlagSet) error {
	if b := bindingOf(vc); b != nil {
		b.flags.AddFlagSet(fs)
	}
	return vc.BindPFlags(fs)
}

// ViperDecodeOptJson makes viper decode by json tags. Durations may be
// given as strings ("5s") or as seconds.
func ViperDecodeOptJson(c *mapstructure.DecoderConfig) {
	c.TagName = "json"
	c.DecodeHook = mapstructure.ComposeDecodeHookFunc(secondsHook, c.DecodeHook)
}

var durationType = reflect.TypeOf(time.Duration(0))

func secondsHook(from reflect.Type, to reflect.Type, v interface{}) (interface{}, error) {
	if to != durationType {
		return v, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(v).Int()) * time.Second, nil
	case reflect.Float64:
		return time.Duration(v.(float64) * float64(time.Second)), nil
	}
	return v, nil
}

// ArgsWithUsage prints the usage line when the arguments are rejected.
func ArgsWithUsage(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}

func usageError(cmd *cobra.Command, err error) error {
	cmd.Println("Usage: " + cmd.UseLine())
	return err
}

func flagUsageError(cmd *cobra.Command, err error) error {
	var names []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Shorthand != "" {
			names = append(names, fmt.Sprintf("--%s or -%s", f.Name, f.Shorthand))
		} else {
			names = append(names, "--"+f.Name)
		}
	})
	cmd.Println("Available Flags: " + strings.Join(names, ", "))
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "fail to encode %T", v)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
