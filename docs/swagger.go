package docs

// @title           Todo API
// @version         1.0
// @description     REST API for managing todo items, with a server-rendered frontend

// @host      localhost:8080
// @BasePath  /

// @tag.name Todos
// @tag.description Todo item management operations
