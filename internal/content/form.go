package content

import (
	"strings"

	"github.com/marketops/console/internal/form"
)

// FormSpec seeds and normalizes content drafts. Blank optional fields are
// cleared so they are left out of the request body.
func FormSpec() form.Spec[Item, Draft] {
	return form.Spec[Item, Draft]{
		From: func(i Item) Draft {
			var campaignID *int64
			if i.CampaignID != nil {
				id := *i.CampaignID
				campaignID = &id
			}
			return Draft{
				Title:      i.Title,
				Body:       i.Body,
				Type:       i.Type,
				CampaignID: campaignID,
				ImageURL:   i.ImageURL,
				Tags:       append([]string(nil), i.Tags...),
			}
		},
		Normalize: Normalize,
	}
}

// Normalize trims text fields and drops empty optional ones.
func Normalize(d Draft, _ bool) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Body = strings.TrimSpace(d.Body)
	d.Type = strings.TrimSpace(d.Type)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Tags = form.CompactStrings(d.Tags)
	if d.CampaignID != nil && *d.CampaignID <= 0 {
		d.CampaignID = nil
	}
	return d
}
