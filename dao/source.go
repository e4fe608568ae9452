package dao

import (
	"Pulse/types"
	"context"
	"fmt"
	"strings"
)

// SourceReader 多态来源读取
// 通知序列化与提及提取都要按 (kind, id) 找回原始实体
type SourceReader struct {
	Posts    *PostDAO
	Comments *CommentDAO
}

func NewSourceReader(posts *PostDAO, comments *CommentDAO) *SourceReader {
	return &SourceReader{Posts: posts, Comments: comments}
}

// 预览最大长度(按字符数, 不是字节)
const previewMaxRunes = 100

// truncateContent 截断只影响预览, 不回写原始内容
func truncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= previewMaxRunes {
		return content
	}
	return string(runes[:previewMaxRunes]) + "..."
}

// ResolvePreview 解析来源预览
// 来源已不存在时返回 (nil, nil), 由上层呈现 null, 绝不报错
func (s *SourceReader) ResolvePreview(ctx context.Context, ref types.TargetRef) (*types.NotifiablePreview, error) {
	switch ref.Kind {
	case types.TargetPost:
		post, err := s.Posts.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, nil
		}
		return &types.NotifiablePreview{
			Type:    string(types.TargetPost),
			ID:      post.ID,
			Preview: truncateContent(post.Title),
		}, nil
	case types.TargetComment:
		comment, err := s.Comments.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if comment == nil {
			return nil, nil
		}
		return &types.NotifiablePreview{
			Type:    string(types.TargetComment),
			ID:      comment.ID,
			Preview: truncateContent(comment.Description),
		}, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", ref.Kind)
	}
}

// MentionText 可提及文本: 帖子取标题+正文, 评论只取正文
// 返回未截断的原文, found=false 表示来源已不存在
func (s *SourceReader) MentionText(ctx context.Context, ref types.TargetRef) (string, bool, error) {
	switch ref.Kind {
	case types.TargetPost:
		post, err := s.Posts.GetByID(ctx, ref.ID)
		if err != nil || post == nil {
			return "", false, err
		}
		return strings.TrimSpace(post.Title + "\n" + post.Description), true, nil
	case types.TargetComment:
		comment, err := s.Comments.GetByID(ctx, ref.ID)
		if err != nil || comment == nil {
			return "", false, err
		}
		return comment.Description, true, nil
	default:
		return "", false, fmt.Errorf("unknown source kind: %s", ref.Kind)
	}
}
