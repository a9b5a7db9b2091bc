package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FormOptions enumerates the option sets a submission may reference.
// Values outside these sets are treated as absent, not as errors.
type FormOptions struct {
	ServiceTypes []string `mapstructure:"serviceTypes"`
	BudgetRanges []string `mapstructure:"budgetRanges"`
	TimeFrames   []string `mapstructure:"timeFrames"`
}

func DefaultFormOptions() FormOptions {
	return FormOptions{
		ServiceTypes: []string{
			"website-design",
			"ai-integration",
			"automation",
			"consulting",
			"custom-development",
			"other",
		},
		BudgetRanges: []string{
			"under-500",
			"500-1000",
			"1000-2500",
			"2500-5000",
			"5000-plus",
			"custom",
		},
		TimeFrames: []string{
			"asap",
			"1-2-weeks",
			"2-4-weeks",
			"1-2-months",
			"flexible",
		},
	}
}

// FormOptionsHolder exposes the current option sets and hot-reloads them
// when the backing config file changes.
type FormOptionsHolder struct {
	current atomic.Value // holds FormOptions
}

func NewFormOptionsHolder() (*FormOptionsHolder, error) {
	v := viper.New()

	v.SetConfigName("form_options")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/intake")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultFormOptions()
		v.SetDefault("form.serviceTypes", defaults.ServiceTypes)
		v.SetDefault("form.budgetRanges", defaults.BudgetRanges)
		v.SetDefault("form.timeFrames", defaults.TimeFrames)
	}

	var opts FormOptions
	if err := v.UnmarshalKey("form", &opts); err != nil {
		return nil, err
	}
	if err := validateFormOptions(opts); err != nil {
		return nil, err
	}

	holder := &FormOptionsHolder{}
	holder.current.Store(opts)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FormOptions
		if err := v.UnmarshalKey("form", &updated); err != nil {
			log.Printf("[form-options] reload failed: %v", err)
			return
		}
		if err := validateFormOptions(updated); err != nil {
			log.Printf("[form-options] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[form-options] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticFormOptionsHolder wraps a fixed option set with no file watching.
func NewStaticFormOptionsHolder(opts FormOptions) *FormOptionsHolder {
	holder := &FormOptionsHolder{}
	holder.current.Store(opts)
	return holder
}

func (h *FormOptionsHolder) Get() FormOptions {
	return h.current.Load().(FormOptions)
}

// Normalize returns value if it belongs to set, otherwise empty.
func Normalize(set []string, value string) string {
	value = strings.TrimSpace(value)
	for _, allowed := range set {
		if value == allowed {
			return value
		}
	}
	return ""
}

func validateFormOptions(opts FormOptions) error {
	if len(opts.ServiceTypes) == 0 {
		return errors.New("form.serviceTypes cannot be empty")
	}
	if len(opts.BudgetRanges) == 0 {
		return errors.New("form.budgetRanges cannot be empty")
	}
	if len(opts.TimeFrames) == 0 {
		return errors.New("form.timeFrames cannot be empty")
	}
	return nil
}
