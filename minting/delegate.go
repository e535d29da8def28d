package minting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DelegateMetadata describes the delegate inscription: a reference to the
// original inscription plus the collection label, embedded verbatim in the
// payload so indexers can attribute the delegate.
type DelegateMetadata struct {
	P                     string `json:"p"`
	Op                    string `json:"op"`
	OriginalInscriptionID string `json:"originalInscriptionId"`
	Name                  string `json:"name"`
	Collection            string `json:"collection"`
	ContentType           string `json:"contentType"`
	Timestamp             int64  `json:"timestamp"`
}

func NewDelegateMetadata(originalInscriptionID, itemName string, now time.Time) DelegateMetadata {
	return DelegateMetadata{
		P:                     "ord-20",
		Op:                    "delegate",
		OriginalInscriptionID: originalInscriptionID,
		Name:                  itemName,
		Collection:            "Trainer Collection",
		ContentType:           "html",
		Timestamp:             now.UnixMilli(),
	}
}

const delegateTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<script type="application/json" id="delegate-metadata">
%s
</script>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
html, body { width: 100%%; height: 100%%; overflow: hidden; background: transparent; }
iframe { width: 100%%; height: 100vh; border: 0; display: block; }
</style>
</head>
<body>
<iframe src="/content/%s" sandbox="allow-scripts allow-same-origin allow-forms allow-popups allow-modals allow-pointer-lock allow-fullscreen" allowfullscreen></iframe>
</body>
</html>`

// BuildDelegateHTML wraps the metadata and an iframe pointing at the original
// inscription's content into the document that gets inscribed.
func BuildDelegateHTML(meta DelegateMetadata) (string, error) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(delegateTemplate, metaJSON, meta.OriginalInscriptionID), nil
}

// DelegateFilename is timestamp-suffixed; uniqueness beyond that is not
// required by the backend.
func DelegateFilename(itemName string, now time.Time) string {
	slug := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, itemName)
	return fmt.Sprintf("%s-%d.html", slug, now.UnixMilli())
}
