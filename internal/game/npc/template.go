package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/mudtrix/internal/game/dice"
)

// DefaultMoveChance is the per-tick chance a roaming monster wanders off.
const DefaultMoveChance = 0.2

// Interval is an inclusive range of whole seconds between attack timer ticks.
type Interval struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Texts override the default messages of a monster. Empty fields use defaults.
type Texts struct {
	Defeat            string `yaml:"defeat"`
	DefeatRoom        string `yaml:"defeat_room"`
	Win               string `yaml:"win"`
	WinRoom           string `yaml:"win_room"`
	Respawn           string `yaml:"respawn"`
	WeaponIneffective string `yaml:"weapon_ineffective"`
}

// Template defines a monster type loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
	FullHealth  int    `yaml:"full_health"`
	// DeadTimer is how long a defeated monster stays dead, e.g. "100s".
	DeadTimer    string   `yaml:"dead_timer"`
	TickInterval Interval `yaml:"tick_interval"`
	// MoveChance applies to mobile monsters only. Zero uses DefaultMoveChance.
	MoveChance float64 `yaml:"move_chance"`
	// Damage is a dice expression applied to a player per attack, e.g. "2" or "1d4+1".
	Damage        string   `yaml:"damage"`
	ScorePenalty  int      `yaml:"score_penalty"`
	Resource      Resource `yaml:"resource"`
	RequiresMagic bool     `yaml:"requires_magic"`
	// KillCounter names the player counter incremented when this monster is defeated.
	KillCounter string   `yaml:"kill_counter"`
	AttackVerbs []string `yaml:"attack_verbs"`
	// DefeatRoom is where defeated players are taken. Empty uses the engine default.
	DefeatRoom string   `yaml:"defeat_room"`
	Echoes     []string `yaml:"echoes"`
	Texts      Texts    `yaml:"texts"`

	deadTimer time.Duration
	damage    dice.Expression
}

// Validate checks template invariants and resolves derived fields.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the template is usable; DeadTimerDuration and
// DamageExpr are valid only after a nil return.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	switch t.Kind {
	case KindMobile, KindStatic:
	default:
		return fmt.Errorf("monster template %q: kind must be mobile or static, got %q", t.ID, t.Kind)
	}
	if t.FullHealth < 1 {
		return fmt.Errorf("monster template %q: full_health must be >= 1", t.ID)
	}
	d, err := time.ParseDuration(t.DeadTimer)
	if err != nil {
		return fmt.Errorf("monster template %q: dead_timer %q is not a valid duration: %w", t.ID, t.DeadTimer, err)
	}
	if d < 0 {
		return fmt.Errorf("monster template %q: dead_timer must not be negative", t.ID)
	}
	if t.TickInterval.Min < 1 || t.TickInterval.Max < t.TickInterval.Min {
		return fmt.Errorf("monster template %q: tick_interval needs 1 <= min <= max, got %d..%d",
			t.ID, t.TickInterval.Min, t.TickInterval.Max)
	}
	if t.MoveChance < 0 || t.MoveChance > 1 {
		return fmt.Errorf("monster template %q: move_chance must be in [0,1]", t.ID)
	}
	expr, err := dice.Parse(t.Damage)
	if err != nil {
		return fmt.Errorf("monster template %q: damage: %w", t.ID, err)
	}
	if t.ScorePenalty < 0 {
		return fmt.Errorf("monster template %q: score_penalty must not be negative", t.ID)
	}
	switch t.Resource {
	case "":
		t.Resource = ResourceHealth
	case ResourceHealth, ResourceWill:
	default:
		return fmt.Errorf("monster template %q: resource must be health or will, got %q", t.ID, t.Resource)
	}
	if t.MoveChance == 0 && t.Kind == KindMobile {
		t.MoveChance = DefaultMoveChance
	}
	if len(t.AttackVerbs) == 0 {
		t.AttackVerbs = []string{"attacks"}
	}
	t.deadTimer = d
	t.damage = expr
	return nil
}

// DeadTimerDuration returns the parsed dead timer.
func (t *Template) DeadTimerDuration() time.Duration { return t.deadTimer }

// DamageExpr returns the parsed damage expression.
func (t *Template) DamageExpr() dice.Expression { return t.damage }

// InitialMode is the mode a fresh or respawned monster starts in.
func (t *Template) InitialMode() Mode {
	return behaviors[t.Kind].initial
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// TemplateMap indexes templates by ID and rejects duplicates.
func TemplateMap(templates []*Template) (map[string]*Template, error) {
	out := make(map[string]*Template, len(templates))
	for _, t := range templates {
		if _, dup := out[t.ID]; dup {
			return nil, fmt.Errorf("duplicate monster template %q", t.ID)
		}
		out[t.ID] = t
	}
	return out, nil
}
