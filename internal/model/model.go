package model

// All 返回需要 AutoMigrate 的全部模型，顺序即依赖顺序
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
		&Fan{},
	}
}
