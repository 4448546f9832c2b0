package content

// Section tags grouping the content rows of each page area.
const (
	SectionHero           = "hero"
	SectionOurStory       = "our_story"
	SectionWeddingDetails = "wedding_details"
	SectionPhotoGallery   = "photo_gallery"
	SectionThankYou       = "thank_you"
)

// Defaults returns the hardcoded content a section renders when the store
// has no override for a key. Callers must not mutate the nested values.
func Defaults(section string) map[string]any {
	switch section {
	case SectionHero:
		return map[string]any{
			"coupleNames": "Aibek & Aigerim",
			"weddingDate": "2025-08-09T19:00:00",
			"subtitle":    "БІЗ ҮЙЛЕНІП ЖАТЫРМЫЗ",
			"dateText":    "09 тамыз 2025 жыл",
			"scrollText":  "Зерттеу үшін айналдырыңыз",
		}
	case SectionOurStory:
		return map[string]any{
			"title":    "Our Love Story",
			"subtitle": "Every love story is beautiful, but ours is our favorite",
			"storyEvents": []any{
				map[string]any{
					"title":       "When Our Eyes First Met",
					"date":        "Spring 2020",
					"description": "It was a beautiful spring day at the local coffee shop. John was reading his favorite book when Jane walked in, and something magical happened. Their eyes met across the room, and they both knew this was the beginning of something special.",
					"icon":        "💕",
				},
				map[string]any{
					"title":       "A Perfect Evening",
					"date":        "Summer 2020",
					"description": "Our first official date was a sunset picnic in the park. We talked for hours about our dreams, our fears, and everything in between. That night, we both knew we had found something rare and beautiful.",
					"icon":        "🌹",
				},
				map[string]any{
					"title":       "Will You Marry Me?",
					"date":        "Winter 2024",
					"description": "On a snowy December evening, John got down on one knee at the same coffee shop where they first met. With tears of joy, Jane said yes, and they began planning the rest of their lives together.",
					"icon":        "💍",
				},
			},
		}
	case SectionWeddingDetails:
		return map[string]any{
			"title":             "Wedding Details",
			"subtitle":          "Join us for a day filled with love, laughter, and celebration",
			"weddingDate":       "June 15, 2025",
			"weddingDay":        "Saturday",
			"dressCodeTitle":    "Dress Code",
			"dressCodeText":     "Cocktail attire requested. Ladies: cocktail dresses or elegant separates. Gentlemen: suit and tie or sports coat.",
			"giftRegistryTitle": "Gift Registry",
			"giftRegistryText":  "Your presence is the greatest gift! If you wish to honor us with a gift, we're registered at Target and Amazon.",
			"events": []any{
				map[string]any{
					"title":    "Ceremony",
					"time":     "4:00 PM",
					"location": "St. Mary's Church",
					"address":  "123 Church Street, Downtown",
					"icon":     "Camera",
				},
				map[string]any{
					"title":    "Cocktail Hour",
					"time":     "5:30 PM",
					"location": "Garden Terrace",
					"address":  "Same venue",
					"icon":     "Clock",
				},
				map[string]any{
					"title":    "Reception",
					"time":     "7:00 PM",
					"location": "Grand Ballroom",
					"address":  "456 Reception Ave",
					"icon":     "Music",
				},
			},
		}
	case SectionPhotoGallery:
		return map[string]any{
			"title":    "Our Journey Together",
			"subtitle": "Captured moments from our beautiful journey of love",
			"photos": []any{
				map[string]any{
					"src":      "https://images.pexels.com/photos/1024960/pexels-photo-1024960.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Couple holding hands",
					"category": "Engagement",
				},
				map[string]any{
					"src":      "https://images.pexels.com/photos/1616403/pexels-photo-1616403.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Wedding rings",
					"category": "Details",
				},
				map[string]any{
					"src":      "https://images.pexels.com/photos/1024993/pexels-photo-1024993.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Couple dancing",
					"category": "Romance",
				},
				map[string]any{
					"src":      "https://images.pexels.com/photos/1729797/pexels-photo-1729797.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Sunset engagement",
					"category": "Engagement",
				},
				map[string]any{
					"src":      "https://images.pexels.com/photos/1667069/pexels-photo-1667069.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Proposal moment",
					"category": "Proposal",
				},
				map[string]any{
					"src":      "https://images.pexels.com/photos/1616408/pexels-photo-1616408.jpeg?auto=compress&cs=tinysrgb&w=800",
					"alt":      "Wedding preparation",
					"category": "Details",
				},
			},
		}
	case SectionThankYou:
		return map[string]any{
			"title":            "Thank You",
			"message":          "We are so grateful for your love and support as we begin this new chapter of our lives. Your presence on our special day means the world to us.",
			"hashtag":          "#JohnAndJane2025",
			"shareTitle":       "Share the Love",
			"shareMessage":     "Don't forget to share your photos using our wedding hashtag:",
			"socialMessage":    "Connect with us on social media",
			"signatureMessage": "With all our love,",
			"coupleNames":      "John & Jane",
		}
	default:
		return map[string]any{}
	}
}
