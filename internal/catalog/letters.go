package catalog

import "github.com/verte-zerg/lettersound/internal/model"

// Phoneme recordings follow Australian English (Macquarie University set).
var builtinLetters = []model.Symbol{
	// Easy consonants: clear, distinct sounds.
	{ID: "p", Glyph: "P", SoundRef: "phonemes/p.wav", Tier: model.TierEasy, Category: "consonant", Color: "#E74C3C"},
	{ID: "b", Glyph: "B", SoundRef: "phonemes/b.wav", Tier: model.TierEasy, Category: "consonant", Color: "#3498DB"},
	{ID: "t", Glyph: "T", SoundRef: "phonemes/t.wav", Tier: model.TierEasy, Category: "consonant", Color: "#2ECC71"},
	{ID: "d", Glyph: "D", SoundRef: "phonemes/d.wav", Tier: model.TierEasy, Category: "consonant", Color: "#F39C12"},
	{ID: "m", Glyph: "M", SoundRef: "phonemes/m.wav", Tier: model.TierEasy, Category: "consonant", Color: "#9B59B6"},
	{ID: "n", Glyph: "N", SoundRef: "phonemes/n.wav", Tier: model.TierEasy, Category: "consonant", Color: "#1ABC9C"},
	{ID: "s", Glyph: "S", SoundRef: "phonemes/s.wav", Tier: model.TierEasy, Category: "consonant", Color: "#E67E22"},
	{ID: "f", Glyph: "F", SoundRef: "phonemes/f.wav", Tier: model.TierEasy, Category: "consonant", Color: "#34495E"},

	// Easy vowels.
	{ID: "a", Glyph: "A", SoundRef: "phonemes/a.wav", Tier: model.TierEasy, Category: "vowel", Color: "#E74C3C"},
	{ID: "e", Glyph: "E", SoundRef: "phonemes/e.wav", Tier: model.TierEasy, Category: "vowel", Color: "#3498DB"},
	{ID: "i", Glyph: "I", SoundRef: "phonemes/i.wav", Tier: model.TierEasy, Category: "vowel", Color: "#2ECC71"},
	{ID: "o", Glyph: "O", SoundRef: "phonemes/o.wav", Tier: model.TierEasy, Category: "vowel", Color: "#F39C12"},

	{ID: "k", Glyph: "K", SoundRef: "phonemes/c.wav", Tier: model.TierMedium, Category: "consonant", Color: "#16A085"},
	{ID: "g", Glyph: "G", SoundRef: "phonemes/g.wav", Tier: model.TierMedium, Category: "consonant", Color: "#8E44AD"},
	{ID: "l", Glyph: "L", SoundRef: "phonemes/l.wav", Tier: model.TierMedium, Category: "consonant", Color: "#2C3E50"},
	{ID: "r", Glyph: "R", SoundRef: "phonemes/r.wav", Tier: model.TierMedium, Category: "consonant", Color: "#D35400"},
	{ID: "w", Glyph: "W", SoundRef: "phonemes/w.wav", Tier: model.TierMedium, Category: "consonant", Color: "#C0392B"},
	{ID: "h", Glyph: "H", SoundRef: "phonemes/h.wav", Tier: model.TierMedium, Category: "consonant", Color: "#27AE60"},
	{ID: "v", Glyph: "V", SoundRef: "phonemes/v.wav", Tier: model.TierMedium, Category: "consonant", Color: "#2980B9"},
	{ID: "z", Glyph: "Z", SoundRef: "phonemes/z.wav", Tier: model.TierMedium, Category: "consonant", Color: "#8E44AD"},
	{ID: "u", Glyph: "U", SoundRef: "phonemes/u.wav", Tier: model.TierMedium, Category: "vowel", Color: "#9B59B6"},

	{ID: "j", Glyph: "J", SoundRef: "phonemes/j.wav", Tier: model.TierHard, Category: "consonant", Color: "#16A085"},
	{ID: "y", Glyph: "Y", SoundRef: "phonemes/y.wav", Tier: model.TierHard, Category: "consonant", Color: "#F1C40F"},
}
