package model

// Relationship-set fields on update payloads are pointers to slices so the
// three cases stay distinct: nil means "no change requested", a pointer to an
// empty slice means "disconnect all", and a populated slice is the full
// desired target set.

// CreateUserReq is the payload for creating a user
type CreateUserReq struct {
	Email         string    `json:"email" binding:"required,email"`
	Name          string    `json:"name" binding:"required"`
	PreferredName string    `json:"preferred_name"`
	Role          string    `json:"role"`
	JoinedAt      string    `json:"joined_at"`
	Twitter       string    `json:"twitter"`
	Linkedin      string    `json:"linkedin"`
	Github        string    `json:"github"`
	Picture       string    `json:"picture"`
	Bio           string    `json:"bio"`
	IsSuperuser   bool      `json:"is_superuser"`
	CompanyUID    *string   `json:"company_uid"`
	Stacks        *[]string `json:"stacks"`
	Softwares     *[]string `json:"softwares"`
}

// UpdateUserReq is the payload for updating a user. Scalar fields merge with
// non-null-wins semantics.
type UpdateUserReq struct {
	Email         *string   `json:"email"`
	Name          *string   `json:"name"`
	PreferredName *string   `json:"preferred_name"`
	Role          *string   `json:"role"`
	JoinedAt      *string   `json:"joined_at"`
	Twitter       *string   `json:"twitter"`
	Linkedin      *string   `json:"linkedin"`
	Github        *string   `json:"github"`
	Picture       *string   `json:"picture"`
	Bio           *string   `json:"bio"`
	Active        *bool     `json:"active"`
	IsSuperuser   *bool     `json:"is_superuser"`
	CompanyUID    *string   `json:"company_uid"`
	Stacks        *[]string `json:"stacks"`
	Softwares     *[]string `json:"softwares"`
}

// LocationReq describes one company location
type LocationReq struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address" binding:"required"`
}

// CreateCompanyReq is the payload for creating a company
type CreateCompanyReq struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Logo        string        `json:"logo"`
	Softwares   *[]string     `json:"softwares"`
	Users       *[]string     `json:"users"`
	Locations   []LocationReq `json:"locations"`
}

// UpdateCompanyReq is the payload for updating a company
type UpdateCompanyReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Logo        *string        `json:"logo"`
	Softwares   *[]string      `json:"softwares"`
	Users       *[]string      `json:"users"`
	Locations   *[]LocationReq `json:"locations"`
}

// CreateSoftwareReq is the payload for creating a software project
type CreateSoftwareReq struct {
	Name           string    `json:"name" binding:"required"`
	Client         string    `json:"client"`
	ProjectType    string    `json:"project_type"`
	Problem        string    `json:"problem"`
	Solution       string    `json:"solution"`
	Comments       string    `json:"comments"`
	Link           string    `json:"link"`
	Image          string    `json:"image"`
	CompanyUID     *string   `json:"company_uid"`
	ContributorUID *string   `json:"contributor_uid"`
	Stacks         *[]string `json:"stacks"`
}

// UpdateSoftwareReq is the payload for updating a software project
type UpdateSoftwareReq struct {
	Name        *string   `json:"name"`
	Client      *string   `json:"client"`
	ProjectType *string   `json:"project_type"`
	Problem     *string   `json:"problem"`
	Solution    *string   `json:"solution"`
	Comments    *string   `json:"comments"`
	Link        *string   `json:"link"`
	Image       *string   `json:"image"`
	CompanyUID  *string   `json:"company_uid"`
	Stacks      *[]string `json:"stacks"`
}

// CreateStackReq is the payload for creating a stack
type CreateStackReq struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" binding:"required"`
	Image       string  `json:"image"`
	PartOf      *string `json:"part_of"`
}

// UpdateStackReq is the payload for updating a stack
type UpdateStackReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Image       *string `json:"image"`
	PartOf      *string `json:"part_of"`
}

// CreatePostReq is the payload for creating a post
type CreatePostReq struct {
	Text            string    `json:"text" binding:"required"`
	Image           string    `json:"image"`
	Link            string    `json:"link"`
	LinkTitle       string    `json:"link_title"`
	LinkDescription string    `json:"link_description"`
	LinkImage       string    `json:"link_image"`
	AuthorUID       string    `json:"author_uid" binding:"required"`
	TaggedUsers     *[]string `json:"tagged_users"`
}

// UpdatePostReq is the payload for updating a post
type UpdatePostReq struct {
	Text            *string   `json:"text"`
	Image           *string   `json:"image"`
	Link            *string   `json:"link"`
	LinkTitle       *string   `json:"link_title"`
	LinkDescription *string   `json:"link_description"`
	LinkImage       *string   `json:"link_image"`
	TaggedUsers     *[]string `json:"tagged_users"`
}

// CreateCommentReq is the payload for creating a comment. Exactly one of
// PostUID and CommentUID must be set.
type CreateCommentReq struct {
	Comment    string `json:"comment" binding:"required"`
	AuthorUID  string `json:"author_uid" binding:"required"`
	PostUID    string `json:"post_uid"`
	CommentUID string `json:"comment_uid"`
}

// UpdateCommentReq is the payload for updating a comment
type UpdateCommentReq struct {
	Comment *string `json:"comment"`
}

// SearchCriteria carries the per-bucket search terms. Empty criteria across
// all buckets requests the shuffled discovery listing.
type SearchCriteria struct {
	Users     []string `json:"users"`
	Companies []string `json:"companies"`
	Softwares []string `json:"softwares"`
	Stacks    []string `json:"stacks"`
	Queries   []string `json:"queries"`
}

// Empty reports whether no criterion bucket carries a term
func (c SearchCriteria) Empty() bool {
	return len(c.Users) == 0 && len(c.Companies) == 0 && len(c.Softwares) == 0 &&
		len(c.Stacks) == 0 && len(c.Queries) == 0
}

// Principal is the authenticated caller supplied by the auth layer
type Principal struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
}
