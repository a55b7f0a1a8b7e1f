// Package pipeline builds the resource graph of the SES email-receiving pipeline: a bucket
// that stores inbound mail, a function that is notified about it, the grants that let SES
// use both, and the receipt rule set that ties them together.
//
// Define is a pure function. It performs no I/O and never fails; the graph is handed to
// package stack, which registers it with the Pulumi engine.
package pipeline

const (
	BucketName   = "my-delivered-emails"
	RuleSetName  = "mail-received-rule-set"
	RuleName     = "mail-received-actions-rule"
	Recipient    = "inbox@example.com"
	FunctionName = "printHelloWorldOnSesEmailReceive"

	SESService = "ses.amazonaws.com"

	InlineRuntime = "nodejs16.x"
	InlineHandler = "index.handler"

	// Runtime and entry point of the Go handlers in lambda/.
	ArchiveRuntime = "provided.al2"
	ArchiveHandler = "bootstrap"

	SpamFilterFunctionName = "mail-received-drop-spam"
	SpamFilterRuleName     = "drop-spam-rule"
)

// InlineSource is the handler shipped with the function when no archive is configured.
const InlineSource = `
exports.handler = async (event) => {
  console.log('hello world: ', event)
};
`

// Environment identifies the target account and region. Neither field is validated;
// empty values end up verbatim in conditions and ARNs.
type Environment struct {
	Account string
	Region  string
}

// Graph is the full set of resource descriptors for one stack.
type Graph struct {
	Identifier  string
	Environment Environment
	Principal   Principal
	Bucket      *StorageResource
	Function    *ComputeResource
	SpamFilter  *ComputeResource
	RuleSet     *RuleSet
}

// Functions lists every compute resource in the graph, the spam filter first.
func (g *Graph) Functions() []*ComputeResource {
	var fns []*ComputeResource
	if g.SpamFilter != nil {
		fns = append(fns, g.SpamFilter)
	}
	return append(fns, g.Function)
}

type options struct {
	ids            IDGenerator
	handlerArchive string
	dropSpam       bool
	spamArchive    string
	active         bool
}

type Option func(*options)

// WithIDGenerator replaces the process-wide timestamp generator. A nil g keeps it.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// WithHandlerArchive deploys the Go handler zip at path instead of the inline source.
func WithHandlerArchive(path string) Option {
	return func(o *options) { o.handlerArchive = path }
}

// WithDropSpam adds a rule ahead of the delivery rule that stops the rule set for mail
// whose spam or virus verdict failed. archivePath is the zip of lambda/drop_spam.
func WithDropSpam(archivePath string) Option {
	return func(o *options) {
		o.dropSpam = true
		o.spamArchive = archivePath
	}
}

// WithActiveRuleSet makes the rule set the account's active one.
func WithActiveRuleSet() Option {
	return func(o *options) { o.active = true }
}

// Define builds the graph for identifier in env.
func Define(identifier string, env Environment, opts ...Option) *Graph {
	o := options{ids: defaultIDs}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Graph{
		Identifier:  identifier,
		Environment: env,
		Principal:   ServicePrincipal(SESService),
	}

	g.Bucket = &StorageResource{
		LogicalName: "MailDeliveryBucket",
		BucketName:  BucketName,
	}
	g.Bucket.AddToResourcePolicy(PolicyStatement{
		Sid:        "AllowSESPuts-" + o.ids.Next(),
		Effect:     EffectAllow,
		Principals: []Principal{g.Principal},
		Actions:    []string{"s3:PutObject"},
		Resources:  []string{g.Bucket.ObjectsARN()},
		Conditions: Conditions{
			"StringEquals": {"AWS:SourceAccount": env.Account},
			"StringLike":   {"AWS:SourceArn": "arn:aws:ses:*"},
		},
	})

	g.Function = &ComputeResource{
		LogicalName:  "SESMailReceivedLambda",
		FunctionName: FunctionName,
		Runtime:      InlineRuntime,
		Handler:      InlineHandler,
		Code:         InlineCode{Source: InlineSource},
	}
	if o.handlerArchive != "" {
		g.Function.Runtime = ArchiveRuntime
		g.Function.Handler = ArchiveHandler
		g.Function.Code = ArchiveCode{Path: o.handlerArchive}
		g.Function.Architectures = []string{"arm64"}
	}
	g.Function.AddPermission(sesInvokeGrant("AllowSESInvoke-"+o.ids.Next(), g.Principal, env))

	g.RuleSet = &RuleSet{
		LogicalName: "MailReceivedRuleSet",
		Name:        RuleSetName,
		DropSpam:    o.dropSpam,
		Active:      o.active,
	}
	if o.dropSpam {
		g.SpamFilter = &ComputeResource{
			LogicalName:   "DropSpamLambda",
			FunctionName:  SpamFilterFunctionName,
			Runtime:       ArchiveRuntime,
			Handler:       ArchiveHandler,
			Code:          ArchiveCode{Path: o.spamArchive},
			Architectures: []string{"arm64"},
		}
		g.SpamFilter.AddPermission(sesInvokeGrant("AllowSESInvokeDropSpam-"+o.ids.Next(), g.Principal, env))
		g.RuleSet.AddRule(&Rule{
			LogicalName: "DropSpamRule",
			Name:        SpamFilterRuleName,
			Actions: []Action{
				LambdaAction{Function: g.SpamFilter, InvocationType: InvocationRequestResponse},
			},
			TLSPolicy:   TLSOptional,
			ScanEnabled: true,
			Enabled:     true,
		})
	}

	g.RuleSet.AddRule(&Rule{
		LogicalName: "DeliverToS3AndInvokeLambdaRule",
		Name:        RuleName,
		Recipients:  []string{Recipient},
		Actions: []Action{
			S3Action{Bucket: g.Bucket},
			LambdaAction{Function: g.Function, InvocationType: InvocationEvent},
		},
		TLSPolicy:   TLSRequire,
		ScanEnabled: false,
		Enabled:     true,
	})

	return g
}

// DeliveryRule returns the rule that stores and forwards mail for Recipient.
func (g *Graph) DeliveryRule() *Rule {
	return g.RuleSet.Rules[len(g.RuleSet.Rules)-1]
}

func sesInvokeGrant(id string, p Principal, env Environment) InvocationGrant {
	return InvocationGrant{
		ID:            id,
		Principal:     p,
		Action:        "lambda:InvokeFunction",
		SourceAccount: env.Account,
		SourceArn:     SourceArn(env),
	}
}

// SourceArn is the pattern matching every SES resource of env.
func SourceArn(env Environment) string {
	return "arn:aws:ses:" + env.Region + ":" + env.Account + ":*"
}
