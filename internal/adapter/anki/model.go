package anki

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	noteModelID    int64 = 4567610856
	deckID         int64 = 8589798175
	defaultDeckID  int64 = 1
	noteIDBase     int64 = 1_500_000_000_000
	cardIDBase     int64 = 1_600_000_000_000
	schemaVersion        = 11
	fieldSeparator       = "\x1f"
	// sortFieldIndex points at Title; Anki sorts the browser by its stripped text.
	sortFieldIndex = 2
)

var fieldNames = []string{
	"Slug",
	"Id",
	"Title",
	"Topic",
	"Content",
	"Difficulty",
	"Paid",
	"Likes",
	"Dislikes",
	"SubmissionsTotal",
	"SubmissionsAccepted",
	"SubmissionAcceptRate",
	"LastSubmissionCode",
}

const frontTemplate = `
<h2>{{Id}}. {{Title}}</h2>
<b>Difficulty:</b> {{Difficulty}}<br/>
&#128077; {{Likes}} &#128078; {{Dislikes}}<br/>
<b>Submissions (total/accepted):</b>
{{SubmissionsTotal}}/{{SubmissionsAccepted}}
({{SubmissionAcceptRate}}%)
<br/>
<b>Topic:</b> {{Topic}}<br/>
<b>URL:</b>
<a href='https://leetcode.com/problems/{{Slug}}/'>
    https://leetcode.com/problems/{{Slug}}/
</a>
<br/>
<h3>Description</h3>
{{Content}}
`

const backTemplate = `
{{FrontSide}}
<hr id="answer">
<b>Discuss URL:</b>
<a href='https://leetcode.com/problems/{{Slug}}/discuss/'>
    https://leetcode.com/problems/{{Slug}}/discuss/
</a>
<br/>
<b>Solution URL:</b>
<a href='https://leetcode.com/problems/{{Slug}}/solution/'>
    https://leetcode.com/problems/{{Slug}}/solution/
</a>
{{#LastSubmissionCode}}
    <br/>
    <b>Accepted Last Submission:</b>
    <pre><code>{{LastSubmissionCode}}</code></pre>
    <br/>
{{/LastSubmissionCode}}
`

const modelCSS = `.card {
  font-family: arial;
  font-size: 20px;
  text-align: left;
  color: black;
  background-color: white;
}
`

const latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"

const latexPost = "\\end{document}"

type modelField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Font   string   `json:"font"`
	Media  []string `json:"media"`
	RTL    bool     `json:"rtl"`
	Size   int      `json:"size"`
	Sticky bool     `json:"sticky"`
}

type modelTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	DID   *int64 `json:"did"`
}

type noteModel struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	SortF     int             `json:"sortf"`
	DID       int64           `json:"did"`
	Tmpls     []modelTemplate `json:"tmpls"`
	Flds      []modelField    `json:"flds"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Tags      []string        `json:"tags"`
	Vers      []int           `json:"vers"`
	Req       [][]any         `json:"req"`
}

type deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Collapsed bool   `json:"collapsed"`
	Dyn       int    `json:"dyn"`
	Conf      int    `json:"conf"`
	USN       int    `json:"usn"`
	Mod       int64  `json:"mod"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
}

func buildNoteModel(mod int64) noteModel {
	fields := make([]modelField, 0, len(fieldNames))
	required := make([]int, 0, len(fieldNames))
	for i, name := range fieldNames {
		fields = append(fields, modelField{Name: name, Ord: i, Font: "Arial", Media: []string{}, Size: 20})
		if strings.Contains(frontTemplate, "{{"+name+"}}") {
			required = append(required, i)
		}
	}
	return noteModel{
		ID:    noteModelID,
		Name:  "Leetcode model",
		Mod:   mod,
		USN:   -1,
		SortF: sortFieldIndex,
		DID:   deckID,
		Tmpls: []modelTemplate{{
			Name: "Leetcode",
			QFmt: frontTemplate,
			AFmt: backTemplate,
		}},
		Flds:      fields,
		CSS:       modelCSS,
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Tags:      []string{},
		Vers:      []int{},
		Req:       [][]any{{0, "any", required}},
	}
}

func newDeck(id int64, name string, mod int64) deck {
	return deck{ID: id, Name: name, Conf: 1, Mod: mod, ExtendNew: 10, ExtendRev: 50}
}

// collectionJSON renders the JSON columns of the single col row.
func collectionJSON(deckName string, mod int64) (conf, models, decks, dconf string, err error) {
	marshal := func(v any) string {
		if err != nil {
			return ""
		}
		var b []byte
		b, err = json.Marshal(v)
		return string(b)
	}

	conf = marshal(map[string]any{
		"activeDecks":   []int64{defaultDeckID},
		"addToCur":      true,
		"collapseTime":  1200,
		"curDeck":       defaultDeckID,
		"curModel":      strconv.FormatInt(noteModelID, 10),
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	})
	models = marshal(map[string]noteModel{
		strconv.FormatInt(noteModelID, 10): buildNoteModel(mod),
	})
	decks = marshal(map[string]deck{
		strconv.FormatInt(defaultDeckID, 10): newDeck(defaultDeckID, "Default", mod),
		strconv.FormatInt(deckID, 10):        newDeck(deckID, deckName, mod),
	})
	dconf = marshal(map[string]any{
		"1": map[string]any{
			"id":       1,
			"name":     "Default",
			"mod":      0,
			"usn":      0,
			"maxTaken": 60,
			"autoplay": true,
			"timer":    0,
			"replayq":  true,
			"new": map[string]any{
				"bury":          true,
				"delays":        []int{1, 10},
				"initialFactor": 2500,
				"ints":          []int{1, 4, 7},
				"order":         1,
				"perDay":        20,
				"separate":      true,
			},
			"lapse": map[string]any{
				"delays":      []int{10},
				"leechAction": 0,
				"leechFails":  8,
				"minInt":      1,
				"mult":        0,
			},
			"rev": map[string]any{
				"bury":     true,
				"ease4":    1.3,
				"fuzz":     0.05,
				"ivlFct":   1,
				"maxIvl":   36500,
				"minSpace": 1,
				"perDay":   100,
			},
		},
	})
	return conf, models, decks, dconf, err
}
