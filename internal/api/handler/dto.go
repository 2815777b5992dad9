package handler

import (
	"time"

	"github.com/d60-Lab/yatube/internal/model"
)

type postResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Group   *string   `json:"group"`
	Image   *string   `json:"image"`
	PubDate time.Time `json:"pub_date"`
}

type commentResponse struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Post    string    `json:"post"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) toPost(p *model.Post) postResponse {
	res := postResponse{
		ID:      p.ID,
		Text:    p.Text,
		Group:   p.GroupID,
		PubDate: p.CreatedAt,
	}
	if p.Author != nil {
		res.Author = p.Author.Username
	}
	if p.Image != nil {
		url := *p.Image
		if h.images != nil {
			url = h.images.URL(*p.Image)
		}
		res.Image = &url
	}
	return res
}

func toComment(c *model.Comment) commentResponse {
	res := commentResponse{ID: c.ID, Post: c.PostID, Text: c.Text, Created: c.CreatedAt}
	if c.Author != nil {
		res.Author = c.Author.Username
	}
	return res
}

func toComments(list []*model.Comment) []commentResponse {
	res := make([]commentResponse, len(list))
	for i, c := range list {
		res[i] = toComment(c)
	}
	return res
}

func toGroup(g *model.Group) groupResponse {
	return groupResponse{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func toUser(u *model.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}
