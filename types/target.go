package types

import "fmt"

// TargetKind 目标类型闭集: 帖子 / 评论
// 多态引用统一用 (kind, id) 二元组表达, 分发必须显式 switch
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// TargetRef 多态目标引用(弱引用, 不代表目标一定存在)
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   uint64     `json:"id"`
}

func PostRef(id uint64) TargetRef    { return TargetRef{Kind: TargetPost, ID: id} }
func CommentRef(id uint64) TargetRef { return TargetRef{Kind: TargetComment, ID: id} }

// Valid 是否属于闭集
func (t TargetRef) Valid() bool {
	return (t.Kind == TargetPost || t.Kind == TargetComment) && t.ID > 0
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}
