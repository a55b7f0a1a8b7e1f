package pipeline

// PolicyVersion is the IAM policy language version used for every document.
const PolicyVersion = "2012-10-17"

type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// Principal is an external service identity, compared by its identifier.
type Principal struct {
	Service string
}

// ServicePrincipal returns the principal for an AWS service, e.g. "ses.amazonaws.com".
func ServicePrincipal(service string) Principal {
	return Principal{Service: service}
}

func (p Principal) String() string { return p.Service }

// Conditions maps a condition operator (StringEquals, StringLike, ...) to its key/value
// predicates. Every operator block must hold for the statement to apply.
type Conditions map[string]map[string]string

// PolicyStatement is a single access grant.
type PolicyStatement struct {
	Sid        string
	Effect     Effect
	Principals []Principal
	Actions    []string
	Resources  []string
	Conditions Conditions
}

// PolicyDocument is an IAM policy: a version and an ordered list of statements.
type PolicyDocument struct {
	Version    string
	Statements []PolicyStatement
}

// NewPolicyDocument returns a document carrying the given statements.
func NewPolicyDocument(stmts ...PolicyStatement) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statements: stmts}
}
