package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"tourism-pipeline/internal/model"
	"tourism-pipeline/pkg/utils"
)

// Annotation types read from the metadata document
const (
	AnnotationCreated            = "CREATED"
	AnnotationUpdateData         = "UPDATE_DATA"
	AnnotationUpdateStructure    = "UPDATE_STRUCTURE"
	AnnotationDisseminationDOI   = "DISSEMINATION_DOI_XML"
	AnnotationSourceInstitutions = "SOURCE_INSTITUTIONS"
)

var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// MetadataDocument is the part of a dataset's metadata JSON that is read.
type MetadataDocument struct {
	Label     *string           `json:"label"`
	Extension MetadataExtension `json:"extension"`
}

// MetadataExtension carries the dataset id and its annotations.
type MetadataExtension struct {
	ID         *string      `json:"id"`
	Annotation []Annotation `json:"annotation"`
}

// Annotation is one typed metadata entry.
type Annotation struct {
	Type  string  `json:"type"`
	Date  *string `json:"date"`
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

// LoadMetadata reads and decodes a metadata document.
func LoadMetadata(path string) (*MetadataDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var doc MetadataDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", path, err)
	}
	return &doc, nil
}

// ExtractMetadata builds the metadata record of a source. Fields without a
// matching annotation stay nil; description is never filled.
func ExtractMetadata(doc *MetadataDocument, link string) model.MetadataRecord {
	rec := model.MetadataRecord{}
	if link != "" {
		rec.Link = utils.StringPtr(link)
	}
	if doc == nil {
		return rec
	}

	rec.Title = doc.Label
	rec.OnlineID = doc.Extension.ID

	for _, ann := range doc.Extension.Annotation {
		switch ann.Type {
		case AnnotationCreated:
			rec.CreationDate = ann.Date
		case AnnotationUpdateData:
			rec.LastUpdate = ann.Date
		case AnnotationUpdateStructure:
			rec.LastUpdateStructure = ann.Date
		case AnnotationDisseminationDOI:
			if ann.Title == nil {
				continue
			}
			if doi := doiPattern.FindString(*ann.Title); doi != "" {
				rec.DOI = utils.StringPtr(doi)
			}
		case AnnotationSourceInstitutions:
			rec.Author = ann.Text
		}
	}
	return rec
}
