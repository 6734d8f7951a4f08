package script

import (
	"fmt"
	"hash/fnv"
)

// templateBank holds the static per-style fallback templates. Each entry is a
// fmt string taking the video title once. Entries must render between 20 and
// 500 characters for any non-empty title.
var templateBank = map[Style][]string{
	StyleHype: {
		"No cap, '%s' is absolute cinema. We are so back, this goes crazy fr fr.",
		"Yo '%s' is straight bussin, deadass the hardest upload of the week.",
		"'%s' just dropped and the timeline will never recover. Certified banger, no notes.",
	},
	StyleRoast: {
		"Deadass who approved '%s'? Crying, screaming, throwing up, and yet I cannot look away.",
		"'%s' is the most unserious thing posted today and somehow that is the appeal.",
		"Bro really uploaded '%s' and thought we would not notice. We noticed. Iconic behavior.",
	},
	StyleWholesome: {
		"Fr fr '%s' healed something in me today. Protect this uploader at all costs.",
		"'%s' is so wholesome it should be illegal. Ten out of ten, I am smiling.",
		"Watching '%s' with zero thoughts, just vibes. This is what the internet was made for.",
	},
	StyleConspiracy: {
		"They do not want you to see '%s'. Wake up, the lore goes deeper than you think.",
		"'%s' confirms everything I have been saying. Connect the dots, it is all there.",
		"Coincidence that '%s' dropped today of all days? I think not. Stay vigilant.",
	},
	StyleShocked: {
		"I cannot believe '%s' is real. Jaw on the floor, deadass speechless right now.",
		"'%s' just broke my brain. No way this actually happened, I need a minute.",
		"Bro. BRO. '%s' is the wildest thing I have seen all year, I am shook.",
	},
}

// TemplateScript deterministically renders a fallback script for the title
// and style. The template is chosen by hashing the title, so the same title
// always yields the same line. This is the terminal safety net and never fails.
func TemplateScript(videoTitle string, style Style) string {
	bank, ok := templateBank[style]
	if !ok {
		bank = templateBank[StyleHype]
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(videoTitle))
	tmpl := bank[h.Sum32()%uint32(len(bank))]

	return fmt.Sprintf(tmpl, videoTitle)
}
