package model

// ============================================================================
// Simple Views
//
// A simple view is the flat, cacheable projection of a single entity: its own
// scalar fields plus cheap derived counters. Simple views are what gets
// stored under the "{type}_{uid}_simple_dict" cache keys and what neighbor
// expansions are built from.
// ============================================================================

// UserSimple is the flat projection of a User node
type UserSimple struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	PreferredName string `json:"preferred_name"`
	Role          string `json:"role"`
	JoinedAt      string `json:"joined_at"`
	Twitter       string `json:"twitter"`
	Linkedin      string `json:"linkedin"`
	Github        string `json:"github"`
	Picture       string `json:"picture"`
	Bio           string `json:"bio"`
	Active        bool   `json:"active"`
	IsSuperuser   bool   `json:"is_superuser"`
	Strength      int64  `json:"strength"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CompanySimple is the flat projection of a Company node
type CompanySimple struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	Strength    int64  `json:"strength"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// SoftwareSimple is the flat projection of a Software node
type SoftwareSimple struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Client      string `json:"client"`
	ProjectType string `json:"project_type"`
	Problem     string `json:"problem"`
	Solution    string `json:"solution"`
	Comments    string `json:"comments"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Strength    int64  `json:"strength"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// StackSimple is the flat projection of a Stack node
type StackSimple struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Image       string `json:"image"`
	Strength    int64  `json:"strength"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// LocationSimple is the flat projection of a Location node
type LocationSimple struct {
	UID     string `json:"uid"`
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// TopicSimple is the flat projection of a Topic node
type TopicSimple struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Strength int64  `json:"strength"`
}

// PostSimple is the flat projection of a Post node
type PostSimple struct {
	UID             string `json:"uid"`
	Text            string `json:"text"`
	Image           string `json:"image"`
	Link            string `json:"link"`
	LinkTitle       string `json:"link_title"`
	LinkDescription string `json:"link_description"`
	LinkImage       string `json:"link_image"`
	Tags            string `json:"tags"`
	CommentCount    int64  `json:"comment_count"`
	LikesCount      int64  `json:"likes_count"`
	Strength        int64  `json:"strength"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// CommentSimple is the flat projection of a Comment node
type CommentSimple struct {
	UID          string `json:"uid"`
	Comment      string `json:"comment"`
	CommentCount int64  `json:"comment_count"`
	LikesCount   int64  `json:"likes_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ============================================================================
// Full Views
//
// A full view is a simple view plus one-hop relationship expansions. Each
// expansion uses the neighbor's simple view, never its full view, so
// expansion depth is exactly one regardless of cycles (PART_OF chains,
// mutual KNOWS, and so on). Single-valued relations with no edge are an
// explicit null, not an empty list.
// ============================================================================

// UserFull is a user simple view plus one-hop expansions
type UserFull struct {
	UserSimple
	Email             string           `json:"email"`
	NotificationCount int              `json:"count_notification"`
	Company           *CompanySimple   `json:"company"`
	Stacks            []StackSimple    `json:"stacks"`
	Softwares         []SoftwareSimple `json:"softwares"`
	Posts             []PostSimple     `json:"posts"`
}

// CompanyFull is a company simple view plus one-hop expansions. Stacks is
// the aggregate of stacks known by the company's employees.
type CompanyFull struct {
	CompanySimple
	Employees []UserSimple     `json:"users"`
	Softwares []SoftwareSimple `json:"softwares"`
	Locations []LocationSimple `json:"locations"`
	Stacks    []StackSimple    `json:"stacks"`
}

// SoftwareFull is a software simple view plus one-hop expansions
type SoftwareFull struct {
	SoftwareSimple
	Company *CompanySimple `json:"company"`
	Stacks  []StackSimple  `json:"stacks"`
	Users   []UserSimple   `json:"users"`
	Posts   []PostSimple   `json:"posts"`
}

// StackFull is a stack simple view plus one-hop expansions. Companies is the
// aggregate of companies whose employees know the stack.
type StackFull struct {
	StackSimple
	PartOf    *StackSimple     `json:"part_of"`
	Users     []UserSimple     `json:"users"`
	Softwares []SoftwareSimple `json:"softwares"`
	Companies []CompanySimple  `json:"companies"`
	Posts     []PostSimple     `json:"posts"`
}

// PostFull is a post simple view plus one-hop expansions
type PostFull struct {
	PostSimple
	CreatedBy       *UserSimple      `json:"created_by"`
	Comments        []CommentSimple  `json:"comments"`
	TaggedUsers     []UserSimple     `json:"tagged_users"`
	TaggedSoftwares []SoftwareSimple `json:"tagged_softwares"`
	TaggedStacks    []StackSimple    `json:"tagged_stacks"`
	TaggedCompanies []CompanySimple  `json:"tagged_companies"`
}

// CommentFull is a comment simple view plus one-hop expansions. OnPost and
// OnComment are mutually exclusive targets; exactly one is non-null.
type CommentFull struct {
	CommentSimple
	CreatedBy *UserSimple     `json:"created_by"`
	OnPost    *PostSimple     `json:"on_post"`
	OnComment *CommentSimple  `json:"on_comment"`
	Replies   []CommentSimple `json:"replies"`
}
