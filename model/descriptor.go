package model

import "fmt"

// PostDescriptor uniquely identifies a post through the site, board, thread
// and post levels.
type PostDescriptor struct {
	SiteName  string `json:"siteName"`
	BoardCode string `json:"boardCode"`
	ThreadNo  uint64 `json:"threadNo"`
	PostNo    uint64 `json:"postNo"`
	PostSubNo uint64 `json:"postSubNo"`
}

// DescriptorFor resolves the descriptor of post within ctx. Per-post
// overrides win over the context when set.
func DescriptorFor(ctx *ParserContext, post RawPost) PostDescriptor {
	d := PostDescriptor{
		SiteName:  ctx.SiteName,
		BoardCode: ctx.BoardCode,
		ThreadNo:  ctx.ThreadID,
		PostNo:    post.PostID,
		PostSubNo: post.PostSubID,
	}
	if post.SiteName != "" {
		d.SiteName = post.SiteName
	}
	if post.BoardCode != "" {
		d.BoardCode = post.BoardCode
	}
	if post.ThreadID > 0 {
		d.ThreadNo = post.ThreadID
	}
	return d
}

func (d PostDescriptor) String() string {
	return fmt.Sprintf("%s/%s/%d/%d:%d", d.SiteName, d.BoardCode, d.ThreadNo, d.PostNo, d.PostSubNo)
}
