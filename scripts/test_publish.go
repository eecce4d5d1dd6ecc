//go:build ignore

// Публикует событие изменения каталога в stream:catalog:changed,
// чтобы проверить воркер сброса рассказов локально:
//
//	go run scripts/test_publish.go -poi <id> -action updated
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/milan-history-map/internal/domain"
	"github.com/redis/go-redis/v9"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	poiID := flag.String("poi", "", "POI id")
	action := flag.String("action", string(domain.ActionUpdated), "created, updated or deleted")
	flag.Parse()

	if *poiID == "" {
		log.Fatal("-poi is required")
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.NewCatalogEvent(domain.EntityPOI, domain.ChangeAction(*action), *poiID, "")
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamCatalogChanged,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published %s %s for POI %s as %s (invalidates narration: %v)\n",
		event.Kind, event.Action, *poiID, id, event.InvalidatesNarration())
}
