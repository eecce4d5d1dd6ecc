// Package docs Milan History Map API.
//
// BFF интерактивной карты исторических мест Милана. Хранит состояние
// сессии и выполняет конвейеры записи контента.
//
// Основные возможности:
// - Загрузка и нормализация каталога
// - Оптимистичное избранное с откатом
// - Создание и редактирование POI, персонажей, маршрутов, категорий и периодов
// - Пешеходные маршруты и рассказы о местах
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- api_key:
//
//	SecurityDefinitions:
//	api_key:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
