package graph

// Label is a node label in the graph
type Label string

const (
	LabelUser     Label = "User"
	LabelCompany  Label = "Company"
	LabelSoftware Label = "Software"
	LabelStack    Label = "Stack"
	LabelPost     Label = "Post"
	LabelComment  Label = "Comment"
	LabelLocation Label = "Location"
	LabelTopic    Label = "Topic"
)

// Direction of a relationship relative to the source entity
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// Rel describes one typed relationship as seen from a source entity: the
// relationship type, its direction relative to the source, and the label of
// the node on the far end. Rel values are the unit the relationship patcher,
// the strength counters, and the view expansions all operate on.
type Rel struct {
	Type   string
	Dir    Direction
	Target Label
}

// Canonical edge directions. Each relationship is stored once, in the
// direction listed here; the Rel values below express both ends of it.
//
//	(User)-[:KNOWS]->(Stack)
//	(User)-[:WORKS_FOR]->(Company)
//	(User)-[:WORKED_ON]->(Software)
//	(User)-[:COMMENTS_BY]->(Comment)
//	(User)-[:POST_TAGGED_USER {has_opened}]->(Post)
//	(Software)-[:CREATED_BY]->(Company)
//	(Software)-[:BUILDED_WITH]->(Stack)
//	(Software)-[:TAGGED_SOFTWARE]->(Post)
//	(Company)-[:COMPANY_LOCATION]->(Location)
//	(Company)-[:TAGGED_COMPANY]->(Post)
//	(Stack)-[:PART_OF]->(Stack)
//	(Stack)-[:TAGGED_STACK]->(Post)
//	(Post)-[:CREATED_BY]->(User)
//	(Post)-[:POST_LIKED_BY]->(User)
//	(Post)-[:COMMENTED_BY]->(User)
//	(Comment)-[:COMMENTS_ON_POST]->(Post)
//	(Comment)-[:COMMENTS_ON_COMMENT]->(Comment)
//	(Comment)-[:COMMENT_LIKED_BY]->(User)
var (
	// User relationships
	UserKnows      = Rel{Type: "KNOWS", Dir: Outgoing, Target: LabelStack}
	UserWorksFor   = Rel{Type: "WORKS_FOR", Dir: Outgoing, Target: LabelCompany}
	UserWorkedOn   = Rel{Type: "WORKED_ON", Dir: Outgoing, Target: LabelSoftware}
	UserComments   = Rel{Type: "COMMENTS_BY", Dir: Outgoing, Target: LabelComment}
	UserTaggedOn   = Rel{Type: "POST_TAGGED_USER", Dir: Outgoing, Target: LabelPost}
	UserPosts      = Rel{Type: "CREATED_BY", Dir: Incoming, Target: LabelPost}
	UserLikedPosts = Rel{Type: "POST_LIKED_BY", Dir: Incoming, Target: LabelPost}

	// Company relationships
	CompanyEmployees = Rel{Type: "WORKS_FOR", Dir: Incoming, Target: LabelUser}
	CompanySoftwares = Rel{Type: "CREATED_BY", Dir: Incoming, Target: LabelSoftware}
	CompanyLocations = Rel{Type: "COMPANY_LOCATION", Dir: Outgoing, Target: LabelLocation}
	CompanyTaggedOn  = Rel{Type: "TAGGED_COMPANY", Dir: Outgoing, Target: LabelPost}

	// Software relationships
	SoftwareCreatedBy    = Rel{Type: "CREATED_BY", Dir: Outgoing, Target: LabelCompany}
	SoftwareStacks       = Rel{Type: "BUILDED_WITH", Dir: Outgoing, Target: LabelStack}
	SoftwareContributors = Rel{Type: "WORKED_ON", Dir: Incoming, Target: LabelUser}
	SoftwareTaggedOn     = Rel{Type: "TAGGED_SOFTWARE", Dir: Outgoing, Target: LabelPost}

	// Stack relationships
	StackPartOf    = Rel{Type: "PART_OF", Dir: Outgoing, Target: LabelStack}
	StackKnownBy   = Rel{Type: "KNOWS", Dir: Incoming, Target: LabelUser}
	StackSoftwares = Rel{Type: "BUILDED_WITH", Dir: Incoming, Target: LabelSoftware}
	StackTaggedOn  = Rel{Type: "TAGGED_STACK", Dir: Outgoing, Target: LabelPost}

	// Location relationships
	LocationCompany = Rel{Type: "COMPANY_LOCATION", Dir: Incoming, Target: LabelCompany}

	// Post relationships
	PostCreatedBy       = Rel{Type: "CREATED_BY", Dir: Outgoing, Target: LabelUser}
	PostTaggedUsers     = Rel{Type: "POST_TAGGED_USER", Dir: Incoming, Target: LabelUser}
	PostTaggedSoftwares = Rel{Type: "TAGGED_SOFTWARE", Dir: Incoming, Target: LabelSoftware}
	PostTaggedStacks    = Rel{Type: "TAGGED_STACK", Dir: Incoming, Target: LabelStack}
	PostTaggedCompanies = Rel{Type: "TAGGED_COMPANY", Dir: Incoming, Target: LabelCompany}
	PostLikedBy         = Rel{Type: "POST_LIKED_BY", Dir: Outgoing, Target: LabelUser}
	PostCommentedBy     = Rel{Type: "COMMENTED_BY", Dir: Outgoing, Target: LabelUser}
	PostComments        = Rel{Type: "COMMENTS_ON_POST", Dir: Incoming, Target: LabelComment}

	// Comment relationships
	CommentCreatedBy = Rel{Type: "COMMENTS_BY", Dir: Incoming, Target: LabelUser}
	CommentLikedBy   = Rel{Type: "COMMENT_LIKED_BY", Dir: Outgoing, Target: LabelUser}
	CommentOnPost    = Rel{Type: "COMMENTS_ON_POST", Dir: Outgoing, Target: LabelPost}
	CommentOnComment = Rel{Type: "COMMENTS_ON_COMMENT", Dir: Outgoing, Target: LabelComment}
	CommentReplies   = Rel{Type: "COMMENTS_ON_COMMENT", Dir: Incoming, Target: LabelComment}
)

// strengthRels lists, per label, the relationship sets whose cardinalities
// sum into the entity's strength score. The lists mirror the product's
// popularity formulas: a user's strength counts everything they touch, a
// company's counts employees, software, and locations, and so on.
var strengthRels = map[Label][]Rel{
	LabelUser: {
		UserKnows, UserWorksFor, UserWorkedOn, UserComments,
		UserTaggedOn, UserPosts, UserLikedPosts,
	},
	LabelCompany: {
		CompanyEmployees, CompanySoftwares, CompanyLocations,
	},
	LabelSoftware: {
		SoftwareCreatedBy, SoftwareStacks, SoftwareContributors,
	},
	LabelStack: {
		StackKnownBy, StackSoftwares, StackPartOf, StackTaggedOn,
	},
	LabelPost: {
		PostTaggedUsers, PostTaggedSoftwares, PostTaggedStacks,
		PostTaggedCompanies, PostComments, PostLikedBy, PostCommentedBy,
	},
	LabelComment: {
		CommentReplies, CommentLikedBy,
	},
	LabelTopic:    {},
	LabelLocation: {},
}

// StrengthRels returns the relationship sets counted into strength for label
func StrengthRels(label Label) []Rel {
	return strengthRels[label]
}

// pattern renders the Cypher relationship pattern for rel with the source
// node bound to src and the far node bound to dst (either may be empty).
func (r Rel) pattern(src, dst string) string {
	far := "(" + dst
	if r.Target != "" {
		far += ":" + string(r.Target)
	}
	far += ")"
	if r.Dir == Outgoing {
		return "(" + src + ")-[:" + r.Type + "]->" + far
	}
	return "(" + src + ")<-[:" + r.Type + "]-" + far
}

// varPattern is like pattern but binds the relationship itself to relVar
func (r Rel) varPattern(src, relVar, dst string) string {
	far := "(" + dst
	if r.Target != "" {
		far += ":" + string(r.Target)
	}
	far += ")"
	if r.Dir == Outgoing {
		return "(" + src + ")-[" + relVar + ":" + r.Type + "]->" + far
	}
	return "(" + src + ")<-[" + relVar + ":" + r.Type + "]-" + far
}
