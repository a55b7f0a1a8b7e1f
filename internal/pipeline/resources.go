package pipeline

import "fmt"

// StorageResource is the bucket that receives raw mail.
type StorageResource struct {
	LogicalName string
	BucketName  string
	Policy      []PolicyStatement
}

func (s *StorageResource) ARN() string {
	return "arn:aws:s3:::" + s.BucketName
}

// ObjectsARN matches every object key in the bucket.
func (s *StorageResource) ObjectsARN() string {
	return s.ARN() + "/*"
}

// AddToResourcePolicy appends a statement; statements are never replaced.
func (s *StorageResource) AddToResourcePolicy(stmt PolicyStatement) {
	s.Policy = append(s.Policy, stmt)
}

// PolicyDocument returns the bucket policy built from every added statement.
func (s *StorageResource) PolicyDocument() PolicyDocument {
	return NewPolicyDocument(s.Policy...)
}

// Code is the deployment payload of a ComputeResource.
type Code interface {
	isCode()
}

// InlineCode is handler source shipped verbatim. It is never parsed.
type InlineCode struct {
	Source string
}

// ArchiveCode points at a zip built outside this program.
type ArchiveCode struct {
	Path string
}

func (InlineCode) isCode()  {}
func (ArchiveCode) isCode() {}

// ComputeResource is a Lambda function together with the grants that allow others to
// invoke it.
type ComputeResource struct {
	LogicalName   string
	FunctionName  string
	Runtime       string
	Handler       string
	Code          Code
	Architectures []string
	Grants        []InvocationGrant
}

func (c *ComputeResource) AddPermission(g InvocationGrant) {
	c.Grants = append(c.Grants, g)
}

// InvocationGrant lets Principal invoke the function it is attached to.
type InvocationGrant struct {
	ID            string
	Principal     Principal
	Action        string
	SourceAccount string
	SourceArn     string
}

type TLSPolicy string

const (
	TLSOptional TLSPolicy = "Optional"
	TLSRequire  TLSPolicy = "Require"
)

type InvocationType string

const (
	InvocationEvent           InvocationType = "Event"
	InvocationRequestResponse InvocationType = "RequestResponse"
)

// Action is a step of a receipt rule.
type Action interface {
	fmt.Stringer
	isAction()
}

// S3Action stores the raw message in Bucket.
type S3Action struct {
	Bucket          *StorageResource
	ObjectKeyPrefix string
}

// LambdaAction invokes Function with the SES event.
type LambdaAction struct {
	Function       *ComputeResource
	InvocationType InvocationType
}

func (S3Action) isAction()     {}
func (LambdaAction) isAction() {}

func (a S3Action) String() string { return "s3:" + a.Bucket.BucketName }

func (a LambdaAction) String() string {
	return fmt.Sprintf("lambda:%s(%s)", a.Function.FunctionName, a.InvocationType)
}

// Rule routes mail for Recipients through Actions, in order.
type Rule struct {
	LogicalName string
	Name        string
	Recipients  []string
	Actions     []Action
	TLSPolicy   TLSPolicy
	ScanEnabled bool
	Enabled     bool
}

// RuleSet is an ordered collection of rules.
type RuleSet struct {
	LogicalName string
	Name        string
	DropSpam    bool
	Active      bool
	Rules       []*Rule
}

func (rs *RuleSet) AddRule(r *Rule) *Rule {
	rs.Rules = append(rs.Rules, r)
	return r
}
