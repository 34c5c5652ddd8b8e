package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/imgajeed76/dfview/internal/ui/styles"
)

// ConfigField represents metadata about a config field extracted from struct tags
type ConfigField struct {
	Key      string // e.g., "viewer.visible_rows"
	Default  string // default value as string
	Desc     string // description for help text
	Min      int    // minimum value for int fields (0 = no limit)
	Max      int    // maximum value for int fields (0 = no limit)
	Type     string // "string", "int" or "bool"
	Category string // e.g., "viewer", "sql"
}

const (
	widthsPrefix = "widths."
	themePrefix  = "theme."
)

var (
	fieldCacheOnce sync.Once
	fieldCache     []ConfigField
)

// configFields extracts all config fields from GlobalConfig using reflection
func configFields() []ConfigField {
	fieldCacheOnce.Do(func() {
		var fields []ConfigField
		cfg := &GlobalConfig{}
		extractFields(reflect.TypeOf(cfg).Elem(), &fields)

		// Sort by key for consistent ordering
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})
		fieldCache = fields
	})
	return fieldCache
}

// extractFields recursively extracts config fields from a struct
func extractFields(t reflect.Type, fields *[]ConfigField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Map sections (widths, theme) have free-form keys
		if field.Type.Kind() == reflect.Map {
			continue
		}

		configKey := field.Tag.Get("config")
		if configKey == "" {
			if field.Type.Kind() == reflect.Struct {
				extractFields(field.Type, fields)
			}
			continue
		}

		cf := ConfigField{
			Key:      configKey,
			Default:  field.Tag.Get("default"),
			Desc:     field.Tag.Get("desc"),
			Category: strings.Split(configKey, ".")[0],
		}

		// Parse min/max for validation
		if minStr := field.Tag.Get("min"); minStr != "" {
			cf.Min, _ = strconv.Atoi(minStr)
		}
		if maxStr := field.Tag.Get("max"); maxStr != "" {
			cf.Max, _ = strconv.Atoi(maxStr)
		}

		switch field.Type.Kind() {
		case reflect.Int:
			cf.Type = "int"
		case reflect.String:
			cf.Type = "string"
		case reflect.Bool:
			cf.Type = "bool"
		}

		*fields = append(*fields, cf)
	}
}

// findField finds a config field by key
func findField(key string) *ConfigField {
	for _, f := range configFields() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}

// structField locates the struct field tagged with key inside the section
// whose toml tag matches the key prefix.
func structField(cfg *GlobalConfig, key string) (reflect.Value, bool) {
	section, _, ok := strings.Cut(key, ".")
	if !ok {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	var nested reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == section {
			nested = v.Field(i)
			break
		}
	}
	if !nested.IsValid() || nested.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	nt := nested.Type()
	for i := 0; i < nt.NumField(); i++ {
		if nt.Field(i).Tag.Get("config") == key {
			return nested.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// getFieldValue gets a field value from the config using reflection
func getFieldValue(cfg *GlobalConfig, key string) (string, bool) {
	if col, ok := strings.CutPrefix(key, widthsPrefix); ok {
		w, found := cfg.Widths[col]
		return strconv.Itoa(w), found
	}
	if name, ok := strings.CutPrefix(key, themePrefix); ok {
		v, found := cfg.Theme[name]
		return v, found
	}

	fv, ok := structField(cfg, key)
	if !ok {
		return "", false
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), true
	case reflect.Int:
		return strconv.FormatInt(fv.Int(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true
	}
	return "", false
}

// setFieldValue sets a field value on the config using reflection
func setFieldValue(cfg *GlobalConfig, key, value string) error {
	if col, ok := strings.CutPrefix(key, widthsPrefix); ok {
		return setWidth(cfg, col, value)
	}
	if name, ok := strings.CutPrefix(key, themePrefix); ok {
		return setTheme(cfg, name, value)
	}

	field := findField(key)
	if field == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	fv, ok := structField(cfg, key)
	if !ok {
		return fmt.Errorf("field not found: %s", key)
	}

	switch fv.Kind() {
	case reflect.String:
		if key == "sql.timeout" {
			if d, err := time.ParseDuration(value); err != nil || d <= 0 {
				return fmt.Errorf("invalid duration: %s", value)
			}
		}
		fv.SetString(value)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		fv.SetBool(b)
		return nil

	case reflect.Int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if intVal < 0 {
			return fmt.Errorf("value %d is negative", intVal)
		}

		// Validate min/max
		if field.Min != 0 && intVal < field.Min {
			return fmt.Errorf("value %d is below minimum %d", intVal, field.Min)
		}
		if field.Max != 0 && intVal > field.Max {
			return fmt.Errorf("value %d exceeds maximum %d", intVal, field.Max)
		}

		fv.SetInt(int64(intVal))
		return nil
	}

	return fmt.Errorf("field not found: %s", key)
}

func setWidth(cfg *GlobalConfig, column, value string) error {
	if column == "" {
		return fmt.Errorf("missing column name in %s<column>", widthsPrefix)
	}
	w, err := strconv.Atoi(value)
	if err != nil || w < 1 {
		return fmt.Errorf("invalid width: %s", value)
	}
	if cfg.Widths == nil {
		cfg.Widths = make(map[string]int)
	}
	cfg.Widths[column] = w
	return nil
}

func setTheme(cfg *GlobalConfig, name, value string) error {
	probe := styles.DefaultTheme()
	if err := probe.Apply(map[string]string{name: value}); err != nil {
		return err
	}
	if cfg.Theme == nil {
		cfg.Theme = make(map[string]string)
	}
	cfg.Theme[name] = value
	return nil
}

func unsetMapValue(cfg *GlobalConfig, key string) error {
	if col, ok := strings.CutPrefix(key, widthsPrefix); ok {
		if _, found := cfg.Widths[col]; !found {
			return fmt.Errorf("no width override for %q", col)
		}
		delete(cfg.Widths, col)
		return nil
	}
	if name, ok := strings.CutPrefix(key, themePrefix); ok {
		if _, found := cfg.Theme[name]; !found {
			return fmt.Errorf("no theme override for %q", name)
		}
		delete(cfg.Theme, name)
		return nil
	}
	return fmt.Errorf("only %s* and %s* keys can be unset", widthsPrefix, themePrefix)
}

// ListKeys returns all fixed config keys
func ListKeys() []string {
	fields := configFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// GetFieldsByCategory returns config fields grouped by category
func GetFieldsByCategory() map[string][]ConfigField {
	result := make(map[string][]ConfigField)
	for _, f := range configFields() {
		result[f.Category] = append(result[f.Category], f)
	}
	return result
}

// GenerateHelpText generates help text for config options
func GenerateHelpText() string {
	var sb strings.Builder

	byCategory := GetFieldsByCategory()

	// Define category order and titles
	categories := []struct {
		key   string
		title string
	}{
		{"viewer", "Viewer"},
		{"sql", "SQL"},
	}

	for _, cat := range categories {
		fields, ok := byCategory[cat.key]
		if !ok || len(fields) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fields {
			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}
			// Pad key to align descriptions
			sb.WriteString(fmt.Sprintf("    %-28s %s%s\n", f.Key, f.Desc, defaultStr))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("  Overrides:\n")
	sb.WriteString(fmt.Sprintf("    %-28s %s\n", widthsPrefix+"<column>", "Fixed width of a column in characters"))
	sb.WriteString(fmt.Sprintf("    %-28s %s\n", themePrefix+"<entry>", "Theme entry, e.g. theme.terminal.row_hover"))

	return sb.String()
}
