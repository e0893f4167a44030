package handler

import "github.com/complai/internal/locale"

type message struct {
	en string
	zh string
}

var uiMessages = map[string]message{
	"home":              {en: "Home", zh: "首页"},
	"posts":             {en: "Posts", zh: "文章"},
	"pages":             {en: "Pages", zh: "页面"},
	"welcome":           {en: "Welcome to", zh: "欢迎来到"},
	"tagline":           {en: "A modern CMS powered by Directus, deployed on Azure Kubernetes Service", zh: "由 Directus 驱动、部署在 Azure Kubernetes Service 上的现代内容管理系统"},
	"cms_card":          {en: "Directus CMS", zh: "Directus CMS"},
	"cms_card_sub":      {en: "Content Management", zh: "内容管理"},
	"frontend_card":     {en: "Go Frontend", zh: "Go 前端"},
	"frontend_card_sub": {en: "Server-rendered pages", zh: "服务端渲染页面"},
	"k8s_card":          {en: "Azure Kubernetes", zh: "Azure Kubernetes"},
	"k8s_card_sub":      {en: "Container Orchestration", zh: "容器编排"},
	"latest_posts":      {en: "Latest Posts", zh: "最新文章"},
	"all_posts":         {en: "All posts", zh: "全部文章"},
	"read_more":         {en: "Read more", zh: "阅读全文"},
	"no_posts":          {en: "No posts have been published yet.", zh: "暂时还没有发布的文章。"},
	"no_pages":          {en: "No pages have been published yet.", zh: "暂时还没有发布的页面。"},
	"deployment_status": {en: "Deployment Status", zh: "部署状态"},
	"status_frontend":   {en: "Frontend: Running", zh: "前端：运行中"},
	"status_directus":   {en: "Directus: Connected", zh: "Directus：已连接"},
	"status_database":   {en: "Database: Active", zh: "数据库：正常"},
	"published_on":      {en: "Published", zh: "发布于"},
	"updated_on":        {en: "Updated", zh: "更新于"},
	"back_to_posts":     {en: "Back to posts", zh: "返回文章列表"},
	"not_found":         {en: "Page not found", zh: "页面不存在"},
	"not_found_hint":    {en: "The content you are looking for is not published or does not exist.", zh: "你要找的内容尚未发布或不存在。"},
	"back_home":         {en: "Back to home", zh: "返回首页"},
	"language_switch":   {en: "中文", zh: "English"},
}

// messagesFor returns the UI strings of one language, keyed for templates.
func messagesFor(language string) map[string]string {
	out := make(map[string]string, len(uiMessages))
	for key, msg := range uiMessages {
		out[key] = locale.Pick(language, msg.en, msg.zh)
	}
	return out
}

func text(language, key string) string {
	msg, ok := uiMessages[key]
	if !ok {
		return key
	}
	return locale.Pick(language, msg.en, msg.zh)
}
