package handlers

import (
	"net/url"
	"strconv"

	"imagenet-browser/application/queries"
	"imagenet-browser/domain/core/entities"
	"imagenet-browser/pkg/common"
	"imagenet-browser/pkg/hypermedia"
)

// Namespace and profile locations served by the router.
const (
	Namespace        = "imagenet_browser"
	LinkRelationsURL = "/imagenet_browser/link-relations/"
	SynsetProfile    = "/profiles/synset/"
	ImageProfile     = "/profiles/image/"
)

// URL builders for every addressable resource.

// EntryURL is the API entry point
func EntryURL() string { return "/api/" }

// SynsetCollectionURL addresses the whole taxonomy
func SynsetCollectionURL() string { return "/api/synsets/" }

// SynsetURL addresses one synset
func SynsetURL(wnid string) string { return "/api/synsets/" + wnid + "/" }

// HyponymCollectionURL addresses a synset's children
func HyponymCollectionURL(wnid string) string { return SynsetURL(wnid) + "hyponyms/" }

// HyponymURL addresses one child inside its parent's namespace
func HyponymURL(parentWNID, childWNID string) string {
	return HyponymCollectionURL(parentWNID) + childWNID + "/"
}

// SynsetImageCollectionURL addresses a synset's images
func SynsetImageCollectionURL(wnid string) string { return SynsetURL(wnid) + "images/" }

// ImageURL addresses one image inside its synset's namespace
func ImageURL(wnid string, id int64) string {
	return SynsetImageCollectionURL(wnid) + strconv.FormatInt(id, 10) + "/"
}

// ImageCollectionURL addresses every image in the taxonomy
func ImageCollectionURL() string { return "/api/images/" }

// The functions below are pure: they map already-resolved data onto Mason
// documents and never touch the store, so each can be checked against a
// fixed (entity, context) pair.

// EntryDocument is the API entry point body.
func EntryDocument() hypermedia.Document {
	return hypermedia.Document{}.
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl(Namespace+":synsetcollection", SynsetCollectionURL()).
		AddControl(Namespace+":imagecollection", ImageCollectionURL())
}

// SynsetDocument renders a synset item with its hierarchy context. The
// delete affordance appears only while the synset has no children; deleting
// a parent would orphan its subtree and is rejected by the API.
func SynsetDocument(result queries.GetSynsetResult) hypermedia.Document {
	synset := result.Synset
	wnid := synset.ID().String()

	fields := map[string]interface{}{
		"wnid":          wnid,
		"words":         synset.Words(),
		"gloss":         synset.Gloss(),
		"hyponym_wnids": result.ChildIDs,
		"image_count":   result.ImageCount,
	}
	if parent := synset.ParentID(); parent != nil {
		fields["parent_wnid"] = parent.String()
	}

	doc := hypermedia.NewDocument(fields).
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", SynsetURL(wnid)).
		AddControl("profile", SynsetProfile).
		AddControl("collection", SynsetCollectionURL()).
		AddControlPut(Namespace+":edit", "Edit this synset", SynsetURL(wnid), synsetSchema(false)).
		AddControl(Namespace+":synsethyponymcollection", HyponymCollectionURL(wnid)).
		AddControl(Namespace+":synsetimagecollection", SynsetImageCollectionURL(wnid)).
		AddControlPost(Namespace+":add_image", "Add an image to this synset",
			SynsetImageCollectionURL(wnid), imageSchema())

	if parent := synset.ParentID(); parent != nil {
		doc.AddControl("up", SynsetURL(parent.String()))
	}
	if len(result.ChildIDs) == 0 {
		doc.AddControlDelete("Delete this synset", SynsetURL(wnid))
	}

	return doc
}

// SynsetListItem renders one synset inside a collection. The self link
// carries the comma-joined labels as its title, the way words.txt
// presents a synset.
func SynsetListItem(synset *entities.Synset) hypermedia.Document {
	return hypermedia.NewDocument(map[string]interface{}{
		"wnid":  synset.ID().String(),
		"words": synset.Words(),
		"gloss": synset.Gloss(),
	}).
		AddControlFull("self", hypermedia.Control{
			Href:  SynsetURL(synset.ID().String()),
			Title: synset.WordsJoined(),
		}).
		AddControl("profile", SynsetProfile)
}

// SynsetCollectionDocument renders one page of the taxonomy.
func SynsetCollectionDocument(synsets []*entities.Synset, page common.Page, params url.Values) hypermedia.Document {
	items := make([]hypermedia.Document, 0, len(synsets))
	for _, synset := range synsets {
		items = append(items, SynsetListItem(synset))
	}

	doc := hypermedia.Document{}.
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", pagedURL(SynsetCollectionURL(), params, page.Cursor)).
		AddControlPost(Namespace+":add_synset", "Add a new synset",
			SynsetCollectionURL(), synsetSchema(false)).
		AddItems(items)

	addPagingControls(doc, SynsetCollectionURL(), params, page)
	return doc
}

// HyponymCollectionDocument renders one page of a synset's children.
func HyponymCollectionDocument(result queries.ListHyponymsResult, page common.Page) hypermedia.Document {
	parentWNID := result.Parent.ID().String()
	base := HyponymCollectionURL(parentWNID)

	items := make([]hypermedia.Document, 0, len(result.Hyponyms))
	for _, child := range result.Hyponyms {
		items = append(items, SynsetListItem(child))
	}

	doc := hypermedia.NewDocument(map[string]interface{}{
		"wnid":  parentWNID,
		"words": result.Parent.Words(),
		"gloss": result.Parent.Gloss(),
	}).
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", pagedURL(base, nil, page.Cursor)).
		AddControl(Namespace+":synsetitem", SynsetURL(parentWNID)).
		AddControlPost(Namespace+":add_hyponym", "Link an existing synset as a hyponym",
			base, synsetSchema(true)).
		AddItems(items)

	addPagingControls(doc, base, nil, page)
	return doc
}

// HyponymDocument renders a child synset inside its parent's namespace.
func HyponymDocument(parentWNID string, child *entities.Synset) hypermedia.Document {
	childWNID := child.ID().String()
	return hypermedia.NewDocument(map[string]interface{}{
		"wnid":  childWNID,
		"words": child.Words(),
		"gloss": child.Gloss(),
	}).
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", HyponymURL(parentWNID, childWNID)).
		AddControl("profile", SynsetProfile).
		AddControl("collection", HyponymCollectionURL(parentWNID)).
		AddControl(Namespace+":synsetitem", SynsetURL(childWNID)).
		AddControlDelete("Detach this hyponym", HyponymURL(parentWNID, childWNID))
}

// ImageDocument renders an image item.
func ImageDocument(image *entities.Image) hypermedia.Document {
	wnid := image.SynsetID().String()
	self := ImageURL(wnid, image.ID())

	return hypermedia.NewDocument(map[string]interface{}{
		"id":      image.ID(),
		"url":     image.URL(),
		"seen_at": image.SeenAt(),
	}).
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", self).
		AddControl("profile", ImageProfile).
		AddControl("collection", SynsetImageCollectionURL(wnid)).
		AddControlPut(Namespace+":edit", "Edit this image", self, imageSchema()).
		AddControlDelete("Delete this image", self)
}

// ImageListItem renders one image inside a collection.
func ImageListItem(image *entities.Image) hypermedia.Document {
	return hypermedia.NewDocument(map[string]interface{}{
		"synset_wnid": image.SynsetID().String(),
		"id":          image.ID(),
		"url":         image.URL(),
		"seen_at":     image.SeenAt(),
	}).
		AddControl("self", ImageURL(image.SynsetID().String(), image.ID())).
		AddControl("profile", ImageProfile)
}

// SynsetImageCollectionDocument renders one page of a synset's images.
func SynsetImageCollectionDocument(wnid string, images []*entities.Image, page common.Page) hypermedia.Document {
	base := SynsetImageCollectionURL(wnid)

	items := make([]hypermedia.Document, 0, len(images))
	for _, image := range images {
		items = append(items, ImageListItem(image))
	}

	doc := hypermedia.Document{}.
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", pagedURL(base, nil, page.Cursor)).
		AddControl(Namespace+":synsetitem", SynsetURL(wnid)).
		AddControlPost(Namespace+":add_image", "Add an image to this synset", base, imageSchema()).
		AddItems(items)

	addPagingControls(doc, base, nil, page)
	return doc
}

// ImageCollectionDocument renders one page of every image in the taxonomy.
func ImageCollectionDocument(images []*entities.Image, page common.Page) hypermedia.Document {
	base := ImageCollectionURL()

	items := make([]hypermedia.Document, 0, len(images))
	for _, image := range images {
		items = append(items, ImageListItem(image))
	}

	doc := hypermedia.Document{}.
		AddNamespace(Namespace, LinkRelationsURL).
		AddControl("self", pagedURL(base, nil, page.Cursor)).
		AddItems(items)

	addPagingControls(doc, base, nil, page)
	return doc
}

// addPagingControls attaches next/prev controls, each present only when a
// page actually exists in that direction.
func addPagingControls(doc hypermedia.Document, base string, params url.Values, page common.Page) {
	if page.HasNext() {
		doc.AddControl("next", pagedURL(base, params, page.Cursor.Next()))
	}
	if page.HasPrev() {
		doc.AddControl("prev", pagedURL(base, params, page.Cursor.Prev()))
	}
}

// pagedURL rebuilds a collection URL carrying the filter parameters plus
// the opaque cursor.
func pagedURL(base string, params url.Values, cursor common.Cursor) string {
	values := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	values.Set("cursor", cursor.Encode())
	return base + "?" + values.Encode()
}

// synsetSchema mirrors the synset request schema. With wnidOnly it matches
// the hyponym-link body, which names an existing synset.
func synsetSchema(wnidOnly bool) map[string]interface{} {
	props := map[string]interface{}{
		"wnid": map[string]interface{}{
			"description": "The WordNet ID of the synset denoted by the letter n followed by 8 digits",
			"type":        "string",
			"pattern":     "^n[0-9]{8}$",
		},
	}
	required := []string{"wnid"}

	if !wnidOnly {
		props["words"] = map[string]interface{}{
			"description": "The words of the synset denoting its rough synonyms",
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
		}
		props["gloss"] = map[string]interface{}{
			"description": "The gloss or brief definition of the synset",
			"type":        "string",
		}
		props["parent_wnid"] = map[string]interface{}{
			"description": "The WordNet ID of the parent synset",
			"type":        "string",
			"pattern":     "^n[0-9]{8}$",
		}
		required = append(required, "words", "gloss")
	}

	return map[string]interface{}{
		"type":       "object",
		"required":   required,
		"properties": props,
	}
}

// imageSchema mirrors the image request schema.
func imageSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []string{"url"},
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"description": "The URL of the image with its scheme being HTTP or HTTPS only",
				"type":        "string",
				"pattern":     "^https?://",
			},
			"seen_at": map[string]interface{}{
				"description": "The last seen date of the image through the URL in ISO 8601 format",
				"type":        "string",
			},
		},
	}
}
