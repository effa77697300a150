// Package spell defines wands, the spell book and the caster that turns a
// successful incantation into a hit on a monster.
package spell

import (
	"fmt"
	"strings"
)

// Difficulty multipliers applied to a wand's base hit chance.
const (
	Easy   = 1.5
	Medium = 1.2
	Hard   = 1.4
)

// DefaultWandHit is the base hit chance of a wand.
const DefaultWandHit = 0.4

// Wand is the focus every spell is cast through.
type Wand struct {
	Name string
	// Hit is the base chance in [0,1] that a spell works.
	Hit float64
	// Magic wands harm monsters that shrug off ordinary weapons.
	Magic bool
}

// DefaultWand returns the wand handed out by wand racks.
func DefaultWand() Wand {
	return Wand{Name: "wand", Hit: DefaultWandHit, Magic: true}
}

// Spell is one incantation.
type Spell struct {
	// Name is the command word that casts the spell.
	Name string
	// Incantations are the full spoken forms also accepted, e.g. "arania exumai".
	Incantations []string
	Multiplier   float64
	// Target is the monster template the spell strikes. Empty spells only show off.
	Target string
	Damage float64
	Help   string

	// Caster is shown to the caster on success.
	Caster string
	// Room is shown to everyone else; %s is the caster's name.
	Room string
	// Fail is shown to the caster when the spell fizzles.
	Fail string
}

// Chance returns the spell's success probability with w.
func (s *Spell) Chance(w Wand) float64 {
	return w.Hit * s.Multiplier
}

const (
	failAgain = "You said your spell but nothing happens! Don't worry, say it again with all your heart."
	fail      = "You said your spell but nothing happens! Don't worry, say it with all your heart."
)

// Builtin returns the stock spell book.
func Builtin() []Spell {
	return []Spell{
		{
			Name:       "avis",
			Multiplier: Easy,
			Help:       "Conjure a flock of birds from the tip of your wand",
			Caster:     "A flock of birds emerge from your wand. They fly away noisily into nowhere...",
			Room:       "A heavy cluttering noise distracts you. You see a flock of birds emerging from {c%s{n's wand. They fly away into nowhere...",
			Fail:       failAgain,
		},
		{
			Name:         "arania",
			Incantations: []string{"arania exumai"},
			Multiplier:   Medium,
			Target:       "spider",
			Damage:       10,
			Help:         "Blast giant spiders away (arania exumai)",
			Caster:       "A {yblast of light{n apears from the tip of the wand.",
			Room:         "A {yblast of light{n appears from {c%s{n's wand",
			Fail:         fail,
		},
		{
			Name:         "expecto",
			Incantations: []string{"expecto patronum"},
			Multiplier:   Hard,
			Target:       "dementor",
			Damage:       10,
			Help:         "Drive off dementors with a patronus (expecto patronum)",
			Caster:       "A silvery {wpatronus{n bursts from the tip of your wand.",
			Room:         "A silvery {wpatronus{n bursts from {c%s{n's wand.",
			Fail:         fail,
		},
		{
			Name:       "riddikulus",
			Multiplier: Medium,
			Target:     "boggart",
			Damage:     10,
			Help:       "Laugh a boggart out of shape",
			Caster:     "You point your wand and shout {yRiddikulus!{n",
			Room:       "{c%s{n points a wand and shouts {yRiddikulus!{n",
			Fail:       fail,
		},
		{
			Name:       "immobulus",
			Multiplier: Easy,
			Target:     "rodent",
			Damage:     8,
			Help:       "Freeze vermin in place",
			Caster:     "A {bpale ray{n shoots from your wand.",
			Room:       "A {bpale ray{n shoots from {c%s{n's wand.",
			Fail:       fail,
		},
		{
			Name:         "lumos",
			Incantations: []string{"lumos maxima"},
			Multiplier:   Medium,
			Target:       "parallax",
			Damage:       8,
			Help:         "Flood the room with light (lumos maxima)",
			Caster:       "A {wblinding light{n flares at the tip of your wand.",
			Room:         "A {wblinding light{n flares at the tip of {c%s{n's wand.",
			Fail:         fail,
		},
		{
			Name:       "reducto",
			Multiplier: Hard,
			Target:     "medusa",
			Damage:     12,
			Help:       "Blast a solid target apart",
			Caster:     "A {rbolt of red light{n blasts from your wand.",
			Room:       "A {rbolt of red light{n blasts from {c%s{n's wand.",
			Fail:       fail,
		},
		{
			Name:       "incendio",
			Multiplier: Medium,
			Target:     "willow",
			Damage:     12,
			Help:       "Set something on fire",
			Caster:     "{rFlames{n roar from the tip of your wand.",
			Room:       "{rFlames{n roar from the tip of {c%s{n's wand.",
			Fail:       fail,
		},
	}
}

// Book indexes spells by command word and by incantation.
type Book struct {
	spells map[string]*Spell
	order  []*Spell
}

// NewBook creates a Book from spells.
//
// Postcondition: Returns an error when two spells share a name or incantation.
func NewBook(spells []Spell) (*Book, error) {
	b := &Book{spells: make(map[string]*Spell, len(spells))}
	for i := range spells {
		sp := &spells[i]
		if sp.Multiplier <= 0 {
			return nil, fmt.Errorf("spell %q: multiplier must be positive", sp.Name)
		}
		if sp.Damage < 0 {
			return nil, fmt.Errorf("spell %q: damage must not be negative", sp.Name)
		}
		for _, key := range append([]string{sp.Name}, sp.Incantations...) {
			key = strings.ToLower(key)
			if _, dup := b.spells[key]; dup {
				return nil, fmt.Errorf("duplicate spell key %q", key)
			}
			b.spells[key] = sp
		}
		b.order = append(b.order, sp)
	}
	return b, nil
}

// DefaultBook returns a Book of the builtin spells.
func DefaultBook() *Book {
	b, err := NewBook(Builtin())
	if err != nil {
		panic(fmt.Sprintf("building default spell book: %v", err))
	}
	return b
}

// Lookup finds the spell cast by input, which is the full line the player
// typed, e.g. "Arania Exumai" or "avis".
func (b *Book) Lookup(input string) (*Spell, bool) {
	words := strings.Fields(strings.ToLower(input))
	for n := len(words); n > 0; n-- {
		if sp, ok := b.spells[strings.Join(words[:n], " ")]; ok {
			return sp, true
		}
	}
	return nil, false
}

// Spells returns every spell in declaration order.
func (b *Book) Spells() []*Spell {
	return append([]*Spell(nil), b.order...)
}
