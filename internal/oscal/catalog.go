// Package oscal serializes parsed policy documents as OSCAL-shaped catalog
// JSON. The output mirrors the catalog schema's field names but is not
// validated against it.
package oscal

import (
	"time"

	"github.com/dgallion1/polcat/internal/policy"
	"github.com/google/uuid"
)

// Version is the OSCAL model version stamped into the metadata.
const Version = "1.1.2"

// Document is the top-level JSON envelope.
type Document struct {
	Catalog Catalog `json:"catalog"`
}

type Catalog struct {
	UUID       string      `json:"uuid"`
	Metadata   Metadata    `json:"metadata"`
	Groups     []Group     `json:"groups,omitempty"`
	BackMatter *BackMatter `json:"back-matter,omitempty"`
}

type Metadata struct {
	Title        string     `json:"title"`
	Published    string     `json:"published"`
	Version      string     `json:"version"`
	OSCALVersion string     `json:"oscal-version"`
	Revisions    []Revision `json:"revisions,omitempty"`
}

type Revision struct {
	Version   string `json:"version"`
	Published string `json:"published"`
	Remarks   string `json:"remarks,omitempty"`
}

type Group struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Groups   []Group   `json:"groups,omitempty"`
	Controls []Control `json:"controls,omitempty"`
}

type Control struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Prose string `json:"prose"`
}

type BackMatter struct {
	Resources []Resource `json:"resources"`
}

type Resource struct {
	UUID        string  `json:"uuid"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	RLinks      []RLink `json:"rlinks"`
}

type RLink struct {
	Href string `json:"href"`
}

// FromDocument maps a parsed policy document into the catalog envelope,
// minting a fresh catalog UUID.
func FromDocument(doc *policy.Document) Document {
	cat := Catalog{
		UUID: uuid.NewString(),
		Metadata: Metadata{
			Title:        doc.Metadata.Title,
			Published:    doc.Metadata.Published.Format(time.RFC3339),
			Version:      doc.Metadata.Version,
			OSCALVersion: Version,
		},
	}
	for _, rev := range doc.Metadata.Revisions {
		cat.Metadata.Revisions = append(cat.Metadata.Revisions, Revision{
			Version:   rev.Version,
			Published: rev.Published.Format(time.RFC3339),
			Remarks:   rev.Remarks,
		})
	}
	for _, g := range doc.Groups {
		cat.Groups = append(cat.Groups, fromGroup(g))
	}
	if len(doc.Resources) > 0 {
		bm := &BackMatter{}
		for _, res := range doc.Resources {
			bm.Resources = append(bm.Resources, Resource{
				UUID:        res.UUID,
				Title:       res.Title,
				Description: res.Description,
				RLinks:      []RLink{{Href: res.Link}},
			})
		}
		cat.BackMatter = bm
	}
	return Document{Catalog: cat}
}

func fromGroup(g *policy.Group) Group {
	out := Group{ID: g.ID, Title: g.Title}
	for _, child := range g.Groups {
		out.Groups = append(out.Groups, fromGroup(child))
	}
	for _, ctrl := range g.Controls {
		oc := Control{ID: ctrl.ID, Title: ctrl.Title}
		for _, part := range ctrl.Parts {
			oc.Parts = append(oc.Parts, Part(part))
		}
		out.Controls = append(out.Controls, oc)
	}
	return out
}
