package schema

// Kind identifies one entity schema and, through Collection, the store
// collection its records live in.
type Kind int

const (
	KindMenuItem Kind = iota + 1
	KindSpecial
	KindGalleryImage
	KindTestimonial
	KindContactMessage
	KindReservation
	KindAdminUser
	KindAnalyticsEvent
)

// Entity is implemented by every schema struct.
type Entity interface {
	Kind() Kind
}

type kindInfo struct {
	name       string
	collection string
}

// collection names are the lowercased entity names; existing databases
// depend on them, so they are spelled out rather than derived.
var kinds = map[Kind]kindInfo{
	KindMenuItem:       {name: "MenuItem", collection: "menuitem"},
	KindSpecial:        {name: "Special", collection: "special"},
	KindGalleryImage:   {name: "GalleryImage", collection: "galleryimage"},
	KindTestimonial:    {name: "Testimonial", collection: "testimonial"},
	KindContactMessage: {name: "ContactMessage", collection: "contactmessage"},
	KindReservation:    {name: "Reservation", collection: "reservation"},
	KindAdminUser:      {name: "AdminUser", collection: "adminuser"},
	KindAnalyticsEvent: {name: "AnalyticsEvent", collection: "analyticsevent"},
}

// Collection returns the store collection for k, or "" for an unknown kind.
func (k Kind) Collection() string {
	return kinds[k].collection
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "Unknown"
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindMenuItem,
		KindSpecial,
		KindGalleryImage,
		KindTestimonial,
		KindContactMessage,
		KindReservation,
		KindAdminUser,
		KindAnalyticsEvent,
	}
}

// PublicContent are the kinds served by the read-only public endpoints.
func PublicContent() []Kind {
	return []Kind{KindMenuItem, KindSpecial, KindGalleryImage, KindTestimonial}
}

// PublicCollections are the collection names of PublicContent.
func PublicCollections() []string {
	kinds := PublicContent()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Collection())
	}
	return names
}
