package llm

import (
	"strings"
	"time"
)

// Campaign is a sales campaign active in a given month. Keyword hits in
// the visit notes feed the summary and the monthly KPI analysis.
type Campaign struct {
	Name        string
	Description string
	Keywords    []string
}

// monthlyCampaigns is the campaign calendar. Months without an entry
// simply have no active campaign.
var monthlyCampaigns = map[time.Month][]Campaign{
	time.May: {
		{
			Name:        "Mayıs Ankraj Kampanyası",
			Description: "Kimyasal ankraj ürünlerinde %10 iskonto",
			Keywords:    []string{"ankraj", "kimyasal"},
		},
	},
	time.June: {
		{
			Name:        "Haziran Vida Kampanyası",
			Description: "Vida ve dübel gruplarında 3 al 2 öde",
			Keywords:    []string{"vida", "dübel", "3 al"},
		},
		{
			Name:        "Yaz Dönemi Sevkiyat Kampanyası",
			Description: "5.000 € üzeri siparişlerde ücretsiz sevkiyat",
			Keywords:    []string{"sevkiyat", "ücretsiz", "nakliye"},
		},
	},
	time.July: {
		{
			Name:        "Temmuz Profil Kampanyası",
			Description: "Alüminyum profil grubunda kademeli iskonto",
			Keywords:    []string{"profil", "alüminyum"},
		},
	},
}

// Mention reports whether one campaign shows up in the notes text.
type Mention struct {
	Campaign  Campaign
	Mentioned bool
}

// CampaignMentions checks the text against every campaign active in the
// visit month.
func CampaignMentions(text string, month time.Month) []Mention {
	campaigns := monthlyCampaigns[month]
	if len(campaigns) == 0 {
		return nil
	}
	lower := strings.ToLower(text)

	mentions := make([]Mention, 0, len(campaigns))
	for _, c := range campaigns {
		hit := false
		for _, kw := range c.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				hit = true
				break
			}
		}
		mentions = append(mentions, Mention{Campaign: c, Mentioned: hit})
	}
	return mentions
}

// ActiveCampaigns lists the campaigns for a month, for prompts and reports.
func ActiveCampaigns(month time.Month) []Campaign {
	return monthlyCampaigns[month]
}
