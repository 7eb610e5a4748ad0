package models

import (
	"errors"
	"testing"
)

func TestCreateAndListPosts(t *testing.T) {
	db := setupDB(t)
	feed := NewFeedService(db)
	a := createUser(t, db, "Asha")

	if _, err := feed.Create(a.ID, CreatePostRequest{Text: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty post err = %v", err)
	}
	first, err := feed.Create(a.ID, CreatePostRequest{Text: "First session"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := feed.Create(a.ID, CreatePostRequest{ImagePath: "/uploads/x.png"})
	if err != nil {
		t.Fatal(err)
	}
	if first.AuthorName != "Asha" || len(first.Likes) != 0 || len(first.Comments) != 0 {
		t.Fatalf("unexpected post: %+v", first)
	}

	posts, err := feed.List(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 || posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatalf("feed not newest first: %+v", posts)
	}
}

func TestToggleReactions(t *testing.T) {
	db := setupDB(t)
	feed := NewFeedService(db)
	author := createUser(t, db, "Author")
	fan := createUser(t, db, "Fan")
	post, _ := feed.Create(author.ID, CreatePostRequest{Text: "Gold!"})

	res, err := feed.ToggleLike(fan.ID, post.ID)
	if err != nil || !res.Active || res.Count != 1 {
		t.Fatalf("like = %+v, %v", res, err)
	}
	res, _ = feed.ToggleCongratulate(fan.ID, post.ID)
	if !res.Active || res.Count != 1 {
		t.Fatalf("congratulate = %+v", res)
	}
	res, _ = feed.ToggleCongratulate(author.ID, post.ID)
	if res.Count != 2 {
		t.Fatalf("second congratulate = %+v", res)
	}

	got, err := feed.Get(fan.ID, post.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Liked || !got.Congratulated || got.LikeCount != 1 || got.CongratulateCount != 2 {
		t.Fatalf("post view = %+v", got)
	}

	res, _ = feed.ToggleLike(fan.ID, post.ID)
	if res.Active || res.Count != 0 {
		t.Fatalf("unlike = %+v", res)
	}
	if _, err := feed.ToggleLike(fan.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing post err = %v", err)
	}
}

func TestComments(t *testing.T) {
	db := setupDB(t)
	feed := NewFeedService(db)
	author := createUser(t, db, "Author")
	c1 := createUser(t, db, "C1")
	c2 := createUser(t, db, "C2")
	post, _ := feed.Create(author.ID, CreatePostRequest{Text: "Match day"})

	a, err := feed.AddComment(c1.ID, post.ID, "Well played")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := feed.AddComment(c2.ID, post.ID, "Congrats")
	c, _ := feed.AddComment(c1.ID, post.ID, "See you next week")
	if _, err := feed.AddComment(c1.ID, post.ID, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty comment err = %v", err)
	}

	got, _ := feed.Get(author.ID, post.ID)
	if len(got.Comments) != 3 || got.Comments[0].ID != a.ID || got.Comments[1].ID != b.ID || got.Comments[2].ID != c.ID {
		t.Fatalf("comment order = %+v", got.Comments)
	}
	if got.Comments[1].UserName != "C2" {
		t.Fatalf("comment author name = %q", got.Comments[1].UserName)
	}

	if err := feed.RemoveComment(c2.ID, post.ID, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger removal err = %v", err)
	}
	if err := feed.RemoveComment(c1.ID, post.ID, a.ID); err != nil {
		t.Fatalf("own removal: %v", err)
	}
	if err := feed.RemoveComment(author.ID, post.ID, b.ID); err != nil {
		t.Fatalf("post author removal: %v", err)
	}
	if err := feed.RemoveComment(author.ID, post.ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat removal err = %v", err)
	}
	got, _ = feed.Get(author.ID, post.ID)
	if len(got.Comments) != 1 || got.Comments[0].ID != c.ID {
		t.Fatalf("remaining comments = %+v", got.Comments)
	}
}

func TestDeletePost(t *testing.T) {
	db := setupDB(t)
	feed := NewFeedService(db)
	author := createUser(t, db, "Author")
	other := createUser(t, db, "Other")
	post, _ := feed.Create(author.ID, CreatePostRequest{Text: "bye"})
	feed.ToggleLike(other.ID, post.ID)
	feed.AddComment(other.ID, post.ID, "nice")

	if err := feed.Delete(other.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete err = %v", err)
	}
	if err := feed.Delete(author.ID, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := feed.Get(author.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	var n int
	db.QueryRow("SELECT (SELECT COUNT(*) FROM post_likes) + (SELECT COUNT(*) FROM post_comments)").Scan(&n)
	if n != 0 {
		t.Fatalf("%d orphaned reactions/comments", n)
	}
}
