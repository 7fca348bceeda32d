package importer

import "errors"

// ErrUnreadableSource 数据源无法读取或解析，不返回部分结果
var ErrUnreadableSource = errors.New("unreadable source")
