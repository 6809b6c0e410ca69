package youtube

import (
	"context"
	"errors"
)

// VideoMeta is the descriptive part of a watch page's player response.
type VideoMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	PublishDate string `json:"publish_date"`
}

// watchPageURL is the watch page with English UI strings.
func watchPageURL(videoID string) string {
	return BaseURL + "/watch?v=" + videoID + "&hl=en"
}

// MetaFromPlayer reads videoDetails and the microformat publish date.
func MetaFromPlayer(pr map[string]any) VideoMeta {
	vd := obj(pr, "videoDetails")
	mf := obj(obj(pr, "microformat"), "playerMicroformatRenderer")
	return VideoMeta{
		Title:       str(vd, "title"),
		Description: str(vd, "shortDescription"),
		Author:      str(vd, "author"),
		PublishDate: str(mf, "publishDate"),
	}
}

// FetchVideoMeta loads the watch page and returns its metadata.
func FetchVideoMeta(ctx context.Context, videoID, cookie string) (VideoMeta, error) {
	page, err := fetchPage(ctx, watchPageURL(videoID), cookie)
	if err != nil {
		return VideoMeta{}, err
	}
	pr := PlayerResponse(page)
	if pr == nil {
		return VideoMeta{}, errors.New("player response not found")
	}
	return MetaFromPlayer(pr), nil
}
