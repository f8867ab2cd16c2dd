package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
	"moodshare/internal/mailer"
	"moodshare/internal/model"
	"moodshare/internal/service"
	"moodshare/internal/session"
	"moodshare/internal/transport/http/middleware"
)

// Handlers serves the session-authenticated, server-rendered pages. All
// mutations redirect after acting; notices travel as flash messages.
type Handlers struct {
	users    *service.UserService
	posts    *service.PostService
	follows  *service.FollowService
	feed     *service.FeedService
	tokens   *service.TokenService
	sessions session.Store
	mail     mailer.Mailer
	cfg      *config.Config
}

func NewHandlers(
	users *service.UserService,
	posts *service.PostService,
	follows *service.FollowService,
	feed *service.FeedService,
	tokens *service.TokenService,
	sessions session.Store,
	mail mailer.Mailer,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		users:    users,
		posts:    posts,
		follows:  follows,
		feed:     feed,
		tokens:   tokens,
		sessions: sessions,
		mail:     mail,
		cfg:      cfg,
	}
}

// ----------------------------------------------------------------------------
// View models
// ----------------------------------------------------------------------------

type pageData struct {
	Title    string
	Flash    string
	LoggedIn bool
	Viewer   string // viewer's username, for the nav bar

	Posts   []postVM
	NextURL string
	PrevURL string

	// Profile page
	Profile *profileVM

	// Edit profile form
	FormUsername string
	FormAboutMe  string

	// Search page
	Query string
	Users []profileVM
}

type postVM struct {
	ID        int64
	Body      string
	Author    string
	Avatar    string
	Created   string
	LikeCount int
	Liked     bool
	Own       bool
}

type profileVM struct {
	Username       string
	Avatar         string
	AboutMe        string
	LastSeen       string
	PostCount      int
	FollowerCount  int
	FollowingCount int
	IsSelf         bool
	IsFollowing    bool
}

func newPostVM(p *model.Post, viewerID int64) postVM {
	view := p.View()
	return postVM{
		ID:        p.ID,
		Body:      p.Body,
		Author:    p.AuthorUsername,
		Avatar:    view.Author.Avatar,
		Created:   p.CreatedAt.Format("Jan 02, 2006 15:04"),
		LikeCount: p.LikeCount,
		Liked:     p.IsLiked,
		Own:       p.UserID == viewerID,
	}
}

func postVMs(posts []model.Post, viewerID int64) []postVM {
	out := make([]postVM, len(posts))
	for i := range posts {
		out[i] = newPostVM(&posts[i], viewerID)
	}
	return out
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request, title string) pageData {
	data := pageData{
		Title: title,
		Flash: popFlash(w, r),
	}
	if uid, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		data.LoggedIn = true
		if u, err := h.users.GetByID(r.Context(), uid); err == nil {
			data.Viewer = u.Username
		}
	}
	return data
}

func pageURLs(base string, q url.Values, p model.Pagination) (next, prev string) {
	if p.HasNext {
		qn := cloneValues(q)
		qn.Set("page", strconv.Itoa(p.Page+1))
		next = base + "?" + qn.Encode()
	}
	if p.HasPrev {
		qp := cloneValues(q)
		qp.Set("page", strconv.Itoa(p.Page-1))
		prev = base + "?" + qp.Encode()
	}
	return next, prev
}

func cloneValues(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// back redirects to the referring page, falling back to the home feed.
func back(w http.ResponseWriter, r *http.Request) {
	ref := r.Referer()
	if ref == "" {
		ref = "/"
	}
	http.Redirect(w, r, ref, http.StatusSeeOther)
}

// ----------------------------------------------------------------------------
// Home and explore
// ----------------------------------------------------------------------------

// Index serves the home feed and accepts the new-post form.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	if r.Method == http.MethodPost {
		if _, err := h.posts.Create(r.Context(), uid, r.FormValue("post")); err != nil {
			switch {
			case errors.Is(err, model.ErrBodyEmpty):
				setFlash(w, "Your post cannot be empty.")
			case errors.Is(err, model.ErrBodyTooLong):
				setFlash(w, "Your post cannot exceed 140 characters.")
			default:
				log.Error().Err(err).Int64("user_id", uid).Msg("failed to create post")
				setFlash(w, "Something went wrong, please try again.")
			}
		} else {
			setFlash(w, "Your post is now live!")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := queryPage(r)
	posts, pagination, err := h.feed.FollowedPosts(r.Context(), uid, page, h.cfg.PostsPerPage)
	if err != nil {
		log.Error().Err(err).Int64("user_id", uid).Msg("failed to load feed")
		http.Error(w, "failed to load feed", http.StatusInternalServerError)
		return
	}

	data := h.page(w, r, "Home")
	data.Posts = postVMs(posts, uid)
	data.NextURL, data.PrevURL = pageURLs("/", url.Values{}, pagination)
	render(w, "index.html", data)
}

// Explore serves the global post stream.
func (h *Handlers) Explore(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	page := queryPage(r)
	posts, pagination, err := h.posts.ListAll(r.Context(), page, h.cfg.PostsPerPage, &uid)
	if err != nil {
		log.Error().Err(err).Msg("failed to load explore")
		http.Error(w, "failed to load explore", http.StatusInternalServerError)
		return
	}

	data := h.page(w, r, "Explore")
	data.Posts = postVMs(posts, uid)
	data.NextURL, data.PrevURL = pageURLs("/explore", url.Values{}, pagination)
	render(w, "index.html", data)
}

// ----------------------------------------------------------------------------
// Authentication pages
// ----------------------------------------------------------------------------

// Login renders and processes the sign-in form.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		user, err := h.users.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
		if err != nil {
			setFlash(w, "Invalid username or password")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		sid, err := h.sessions.Create(r.Context(), user.ID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create session")
			http.Error(w, "failed to sign in", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    sid,
			Path:     "/",
			MaxAge:   h.cfg.SessionLifetime,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, "login.html", h.page(w, r, "Sign In"))
}

// Logout destroys the session and clears the cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookie); err == nil && c.Value != "" {
		if err := h.sessions.Destroy(r.Context(), c.Value); err != nil {
			log.Warn().Err(err).Msg("failed to destroy session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Register renders and processes the sign-up form.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		username := r.FormValue("username")
		email := r.FormValue("email")
		password := r.FormValue("password")

		if _, err := h.users.Register(r.Context(), username, email, password); err != nil {
			switch {
			case errors.Is(err, model.ErrUsernameExists):
				setFlash(w, "Please use a different username.")
			case errors.Is(err, model.ErrEmailExists):
				setFlash(w, "Please use a different email address.")
			default:
				setFlash(w, "Registration failed, please check your details.")
			}
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}

		setFlash(w, "Congratulations, you are now a registered user!")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	render(w, "register.html", h.page(w, r, "Register"))
}

// ----------------------------------------------------------------------------
// Password reset
// ----------------------------------------------------------------------------

// ResetPasswordRequest asks for an email and sends the reset link. The flash
// is the same whether or not the address is registered.
func (h *Handlers) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		email := r.FormValue("email")
		if user, err := h.users.GetByEmail(r.Context(), email); err == nil {
			token, err := h.tokens.IssueResetToken(user.ID)
			if err != nil {
				log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue reset token")
			} else {
				resetURL := fmt.Sprintf("%s/reset_password/%s", h.cfg.BaseURL, token)
				if err := h.mail.SendPasswordReset(user.Email, user.Username, resetURL); err != nil {
					log.Error().Err(err).Str("email", user.Email).Msg("failed to send reset email")
				}
			}
		}
		setFlash(w, "Check your email for the instructions to reset your password")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	render(w, "reset_password_request.html", h.page(w, r, "Reset Password"))
}

// ResetPassword verifies the token from the emailed link and sets the new
// password. Bad or expired tokens bounce to the home page.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token := chi.URLParam(r, "token")
	userID, err := h.tokens.VerifyResetToken(token)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		if err := h.users.SetPassword(r.Context(), userID, r.FormValue("password")); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to reset password")
			setFlash(w, "Could not reset your password, please try again.")
			http.Redirect(w, r, "/reset_password/"+token, http.StatusSeeOther)
			return
		}
		setFlash(w, "Your password has been reset.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	render(w, "reset_password.html", h.page(w, r, "Reset Password"))
}

// ----------------------------------------------------------------------------
// Profiles
// ----------------------------------------------------------------------------

// UserProfile serves a user's page with their posts.
func (h *Handlers) UserProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	username := chi.URLParam(r, "username")
	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("failed to load profile")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	page := queryPage(r)
	posts, pagination, err := h.posts.ListByUser(r.Context(), user.ID, page, h.cfg.PostsPerPage, &uid)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to load user posts")
		http.Error(w, "failed to load posts", http.StatusInternalServerError)
		return
	}

	profile := profileVM{
		Username:       user.Username,
		Avatar:         user.Avatar(128),
		PostCount:      user.PostCount,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		IsSelf:         user.ID == uid,
	}
	if user.AboutMe != nil {
		profile.AboutMe = *user.AboutMe
	}
	if user.LastSeen != nil {
		profile.LastSeen = user.LastSeen.Format("Jan 02, 2006 15:04")
	}
	if !profile.IsSelf {
		following, err := h.follows.IsFollowing(r.Context(), uid, user.ID)
		if err == nil {
			profile.IsFollowing = following
		}
	}

	data := h.page(w, r, user.Username)
	data.Profile = &profile
	data.Posts = postVMs(posts, uid)
	data.NextURL, data.PrevURL = pageURLs("/user/"+url.PathEscape(user.Username), url.Values{}, pagination)
	render(w, "user.html", data)
}

// EditProfile renders and processes the profile form.
func (h *Handlers) EditProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	if r.Method == http.MethodPost {
		err := h.users.UpdateProfile(r.Context(), uid, r.FormValue("username"), r.FormValue("about_me"))
		if err != nil {
			switch {
			case errors.Is(err, model.ErrUsernameExists):
				setFlash(w, "Please use a different username.")
			case errors.Is(err, model.ErrAboutMeTooLong):
				setFlash(w, "About me cannot exceed 140 characters.")
			default:
				setFlash(w, "Could not save your changes.")
			}
		} else {
			setFlash(w, "Your changes have been saved.")
		}
		http.Redirect(w, r, "/edit_profile", http.StatusSeeOther)
		return
	}

	user, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	data := h.page(w, r, "Edit Profile")
	data.FormUsername = user.Username
	if user.AboutMe != nil {
		data.FormAboutMe = *user.AboutMe
	}
	render(w, "edit_profile.html", data)
}

// ----------------------------------------------------------------------------
// Follow / unfollow
// ----------------------------------------------------------------------------

// Follow handles POST /follow/{username}.
func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	username := chi.URLParam(r, "username")
	target, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		setFlash(w, fmt.Sprintf("User %s not found.", username))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.follows.Follow(r.Context(), uid, target.ID); err != nil {
		if errors.Is(err, model.ErrCannotFollowSelf) {
			setFlash(w, "You cannot follow yourself!")
		} else {
			log.Error().Err(err).Int64("target", target.ID).Msg("failed to follow")
			setFlash(w, "Something went wrong, please try again.")
		}
		http.Redirect(w, r, "/user/"+url.PathEscape(username), http.StatusSeeOther)
		return
	}

	setFlash(w, fmt.Sprintf("You are following %s!", username))
	http.Redirect(w, r, "/user/"+url.PathEscape(username), http.StatusSeeOther)
}

// Unfollow handles POST /unfollow/{username}.
func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	username := chi.URLParam(r, "username")
	target, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		setFlash(w, fmt.Sprintf("User %s not found.", username))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.follows.Unfollow(r.Context(), uid, target.ID); err != nil {
		if errors.Is(err, model.ErrCannotFollowSelf) {
			setFlash(w, "You cannot unfollow yourself!")
		} else {
			log.Error().Err(err).Int64("target", target.ID).Msg("failed to unfollow")
			setFlash(w, "Something went wrong, please try again.")
		}
		http.Redirect(w, r, "/user/"+url.PathEscape(username), http.StatusSeeOther)
		return
	}

	setFlash(w, fmt.Sprintf("You are not following %s.", username))
	http.Redirect(w, r, "/user/"+url.PathEscape(username), http.StatusSeeOther)
}

// ----------------------------------------------------------------------------
// Likes and deletion
// ----------------------------------------------------------------------------

// Like handles POST /like/{id} and redirects back to the referring page.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.posts.Like(r.Context(), postID, uid); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Int64("post_id", postID).Msg("failed to like post")
	}
	back(w, r)
}

// Unlike handles POST /unlike/{id} and redirects back.
func (h *Handlers) Unlike(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.posts.Unlike(r.Context(), postID, uid); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Int64("post_id", postID).Msg("failed to unlike post")
	}
	back(w, r)
}

// DeletePost handles POST /delete/{id}. Only the author may delete.
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.posts.Delete(r.Context(), postID, uid); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, model.ErrNotPostOwner):
			setFlash(w, "You can only delete your own posts!")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		default:
			log.Error().Err(err).Int64("post_id", postID).Msg("failed to delete post")
			setFlash(w, "Something went wrong, please try again.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	setFlash(w, "Post deleted.")
	back(w, r)
}

// ----------------------------------------------------------------------------
// Search
// ----------------------------------------------------------------------------

// Search serves combined user and post search results.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserIDFromContext(r.Context())

	query := r.URL.Query().Get("q")
	data := h.page(w, r, "Search")
	data.Query = query

	if query == "" {
		render(w, "search.html", data)
		return
	}

	users, err := h.users.Search(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("failed to search users")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	page := queryPage(r)
	posts, pagination, err := h.posts.Search(r.Context(), query, page, h.cfg.PostsPerPage, &uid)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("failed to search posts")
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	for i := range users {
		vm := profileVM{
			Username:  users[i].Username,
			Avatar:    users[i].Avatar(48),
			PostCount: users[i].PostCount,
		}
		if users[i].AboutMe != nil {
			vm.AboutMe = *users[i].AboutMe
		}
		data.Users = append(data.Users, vm)
	}
	data.Posts = postVMs(posts, uid)

	q := url.Values{}
	q.Set("q", query)
	data.NextURL, data.PrevURL = pageURLs("/search", q, pagination)
	render(w, "search.html", data)
}
