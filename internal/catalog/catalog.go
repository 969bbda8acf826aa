// Package catalog ships the public gallery's static image list. It is fixed
// content: the public lightbox never touches member state.
package catalog

import "github.com/rossocorsa/panigaleclub/internal/models"

// Images returns the ordered Panigale V4S catalog. The slice is freshly
// allocated so callers may slice it freely.
func Images() []models.CatalogImage {
	return []models.CatalogImage{
		{ID: 1, Src: "https://images.unsplash.com/photo-1568772585407-9361f9bf3a87?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Frontansicht", Category: "studio"},
		{ID: 2, Src: "https://images.unsplash.com/photo-1591637333472-2a4a117ab20f?q=80&w=2671&auto=format&fit=crop", Alt: "Panigale V4S - Seitenansicht", Category: "studio"},
		{ID: 3, Src: "https://images.unsplash.com/photo-1622185135505-2d795005617d?q=80&w=2574&auto=format&fit=crop", Alt: "Panigale V4S - Cockpit", Category: "details"},
		{ID: 4, Src: "https://images.unsplash.com/photo-1580310614729-ccd69652491d?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Auf der Straße", Category: "riding"},
		{ID: 5, Src: "https://images.unsplash.com/photo-1589285871345-146bc9a58c34?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Rückansicht", Category: "studio"},
		{ID: 6, Src: "https://images.unsplash.com/photo-1558981285-6f0c94958bb6?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Kurvenfahrt", Category: "riding"},
		{ID: 7, Src: "https://images.unsplash.com/photo-1560009571-bbf009ae0bad?q=80&w=2574&auto=format&fit=crop", Alt: "Panigale V4S - Motor Detail", Category: "details"},
		{ID: 8, Src: "https://images.unsplash.com/photo-1611241443322-78b64c9b6721?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Bremsen", Category: "details"},
		{ID: 9, Src: "https://images.unsplash.com/photo-1619771914272-e3c1ba17ba4d?q=80&w=2574&auto=format&fit=crop", Alt: "Panigale V4S - In der Werkstatt", Category: "lifestyle"},
		{ID: 10, Src: "https://images.unsplash.com/photo-1599819811279-d5ad9cccf838?q=80&w=2670&auto=format&fit=crop", Alt: "Panigale V4S - Nachtfahrt", Category: "riding"},
		{ID: 11, Src: "https://images.unsplash.com/photo-1614177684386-7c57d768efac?q=80&w=2574&auto=format&fit=crop", Alt: "Panigale V4S - Helme", Category: "lifestyle"},
		{ID: 12, Src: "https://images.unsplash.com/photo-1586323266355-4a3d7bcd8e2a?q=80&w=2574&auto=format&fit=crop", Alt: "Panigale V4S - Rennstrecke", Category: "racing"},
	}
}
